// Package validation checks attribute values against their declared
// constraints: mandatory, numeric range, string length, email format and
// link URLs. It is a pure function of the layout and the record.
package validation
