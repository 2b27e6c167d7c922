// Package catalog defines the format-agnostic node-type catalog: for every
// node type name, its ordered meta parameters, input slots and output slots.
//
// A Catalog is loaded once at startup through a Loader (see the hcl and
// yamlcatalog packages) and treated as read-only afterwards. The graph
// finalizer validates authored graphs against it and the evaluator resolves
// slot data types from it.
package catalog
