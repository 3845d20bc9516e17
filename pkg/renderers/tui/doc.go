// Package tui edits a session interactively in the terminal with survey
// prompts and prints rendered trees as plain text.
package tui
