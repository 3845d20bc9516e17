// Package session runs the initialization pipeline that turns a parsed
// configuration into a ready-to-render Session.
//
// The pipeline is an ordered list of pure steps (`session = step(session)`):
// every step clones what it changes, so a step can be tested in isolation and
// the configuration handed to Build is never modified. The sequence is
// idempotent: applying Builder.Steps to an already built session yields an
// equal session. A layout change requires a new Build.
//
// Renderers must treat anything but StateReady as "not initialized"; Build
// never hands out a partially initialized session.
package session
