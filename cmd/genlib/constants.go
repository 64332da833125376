package main

// Default limits for CLI commands.
const (
	DefaultPersonLimit  = 50
	DefaultHistoryLimit = 20
)

// Valid output formats.
var validFormats = []string{"table", "json"}
