// Package registry provides the node behavior dispatcher.
//
// The Registry maps the node type names used in the catalog (e.g. "Value",
// "Save") to the compiled Go functions implementing them. Modules populate
// it once during application startup through their Register method; it is
// never mutated afterwards.
//
// After registration the registry is validated against the loaded catalog to
// ensure that the Go code and the manifests are in sync, preventing a wide
// class of runtime errors.
package registry
