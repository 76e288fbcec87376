// Package registry maintains the bundle registry: a namespace of bundle
// names that double as slash-delimited virtual paths, and the assets
// assigned to each bundle.
//
// Bundle full names ("name" or "name.variant") are unique without regard
// to case. A name may not be a path prefix of another bundle's name, and
// bundles that share a name either all carry a variant or none do. A
// bundle's content type is fixed by its first asset. Every asset belongs
// to exactly one bundle; unassigning an asset deletes it.
//
// The registry is not safe for concurrent use. Load and Save are the only
// operations that touch the filesystem.
package registry
