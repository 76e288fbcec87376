// Package catalog is the project's asset catalog: it maps the stable
// identifiers of content items to their current paths.
//
// Identifiers live in YAML sidecar files next to each content item
// ("icon.png" has "icon.png.meta" holding a guid: line). Scan walks the
// content root, parses sidecars in parallel and builds a Catalog. Open
// does the same but reuses a JSON index cache while no directory or
// sidecar under the root has changed.
//
// The registry only needs Catalog.ResolveGUIDToPath; everything else here
// serves the CLI and doctor.
package catalog
