// Package project locates a bundlex project on disk and owns its
// conventional layout: the .bundlex/ settings directory, the config file,
// the registry document, the catalog cache and the content root. It also
// implements project initialization and the doctor health check.
package project
