// Package version contains information on the current version of the
// program. It is split from the main program for easy use by both cmd/c1c
// and server/api.
package version

// Current is the string representing the current version of c1c.
const Current = "0.1.0"
