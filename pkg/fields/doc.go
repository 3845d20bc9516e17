// Package fields maps every attribute kind to a Behavior: how a value is
// parsed from input, normalized for storage, formatted for display and
// described as a mode-aware Control for a renderer.
//
// The Registry is constructed once and passed to the renderer; every kind in
// model.AllKinds has a registered behavior and Check reports any gap.
package fields
