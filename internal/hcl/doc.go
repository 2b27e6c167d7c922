// Package hcl provides the HCL implementation of catalog.Loader. Node types
// are declared in manifest files found under the modules path, one `node`
// block per type:
//
//	node "Value" {
//	  display_name = "Value"
//
//	  meta "value" {
//	    type    = scalar
//	    default = 0
//	  }
//
//	  output "value" {
//	    type = scalar
//	  }
//	}
//
// It is responsible for file discovery, parsing, and translation of the
// HCL-specific schema into the format-agnostic catalog model.
package hcl
