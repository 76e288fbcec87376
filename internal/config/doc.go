// Package config manages per-project settings stored at
// <project>/.bundlex/config.yaml and overridable through BUNDLEX_*
// environment variables. Path settings are resolved against the project
// root.
package config
