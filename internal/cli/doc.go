// Package cli defines the Cobra command tree for the bundlex CLI. Each file
// in this package registers one top-level command (bundle, asset, catalog,
// etc.) with the root command. Commands load the registry, apply one
// operation, and save; the registry, catalog and project packages hold the
// logic.
package cli
