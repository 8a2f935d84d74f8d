// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses `node` blocks from .hcl files and translates them into
// the format-agnostic config.Model.
//
// A node block has two labels, the handler kind and the node name:
//
//	node "http_request" "fetch" {
//	  depends_on = ["setup"]
//	  timeout    = "5s"
//	  cost       = 2
//
//	  arguments {
//	    url = "https://example.com"
//	  }
//	}
//
// Attributes inside the arguments block are evaluated as literal
// expressions; references to other nodes are expressed with depends_on and
// arrive at runtime as dependency results.
package hcl
