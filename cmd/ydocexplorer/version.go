package main

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
