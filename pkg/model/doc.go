// Package model defines the typed layout and record shapes consumed by the
// normalizer, the initialization pipeline, the field registry and the
// renderers.
//
// Layout payloads arrive from legacy backends with loosely typed flags
// (`true`, `"true"`, `"false"`) and numbers (`100`, `"100"`). The Flag and
// Number types absorb those representations at decode time so downstream
// readers only ever see booleans and float64 values. Attribute and Section
// keep any metadata they do not model explicitly under Meta, and write it
// back when marshalled, so payloads round-trip without losing business keys.
//
// Attributes also carry canonical fields (Kind, CanonicalTag, LineType,
// IsTableAttribute) stamped by layout.Canonicalize. Code outside the layout
// package should read those instead of re-deriving them from Tag/Right.
package model
