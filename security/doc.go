// Package security records which custom attributes of a symbol are security
// attributes and projects them for emission.
//
// During attribute binding, workers record the decoded SecurityAction of each
// security attribute by its position in the symbol's full custom attribute
// list, and the resolved file path of any PermissionSet attribute that names
// a file:
//
//	data.SetAction(i, security.ActionDemand, len(attrs))
//	data.SetFixupPath(i, "/abs/perm.xml", len(attrs))
//
// At emission, Attributes yields the security attributes in index order.
// Attributes with a recorded path are wrapped in a PermissionSetFileReference
// whose file is read only when Resolve is called, so file contents are never
// held for the whole compilation.
package security
