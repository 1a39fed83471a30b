// Package ui holds console-facing helpers: human-readable command lifecycle
// logging for the shell executor and terminal detection used to choose colored
// output and interactive prompts.
package ui
