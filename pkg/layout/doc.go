// Package layout turns raw configuration payloads into canonical layouts and
// builds the lookup indexes the initialization pipeline consumes.
package layout
