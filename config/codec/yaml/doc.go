// Package yaml provides a YAML codec for configuration documents.
//
// This package uses github.com/goccy/go-yaml. Mappings are decoded with
// yaml.UseOrderedMap so a document keeps the key order of the file, and are
// encoded back as yaml.MapSlice so saving never reshuffles keys.
//
// Usage:
//
//	codec := yaml.NewCodec()
//	doc, err := codec.Decode(data)
//	...
//	out, err := codec.Encode(doc)
//
// Lookup reads a single value straight from raw YAML using goccy/go-yaml
// PathString navigation. Paths are converted from dotted form
// (e.g. "api.permissions") to YAML path form (e.g. "$.api.permissions").
package yaml
