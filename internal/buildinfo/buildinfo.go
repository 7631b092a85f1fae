// Package buildinfo carries the version stamped at release time.
package buildinfo

// Version is overridden with -ldflags at build time.
var Version = "dev"
