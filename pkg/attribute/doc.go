// Package attribute provides the pure helpers every other package uses to
// read and write an attribute's value in a record, resolve its kind and read
// its flags.
//
// Tag name and kind resolution follow the legacy dual-definition order: the
// first right-hand sub-definition wins, then the attribute's own fields, then
// the text default. Attributes stamped by layout.Canonicalize short-circuit
// that chain.
package attribute
