// Package collab declares the collaborators a form session talks to: where
// layouts come from, how reference fields search, and where records are
// saved. The engine depends only on these interfaces; the adapters in this
// package (cache, HTTP fetch, debounced search, submit) are optional.
package collab
