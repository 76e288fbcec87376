// Package document reads and writes the bundle registry document: a YAML
// file holding a format version plus ordered "bundles" and "assets" record
// lists. Decoding checks the document shape against an embedded JSON
// schema and validates each record on its own, so callers can skip bad
// records without rejecting the whole file. Writes go through a temp file
// and a rename so a failed save never leaves a truncated document behind.
package document
