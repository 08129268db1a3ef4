// Package rulefile loads validation rule declarations from YAML, JSON, or
// TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml).
//
// Example:
//
//	src := rulefile.New("rules.yaml", rulefile.Options{Required: true})
//	err := reg.LoadFrom(ctx, src)
package rulefile
