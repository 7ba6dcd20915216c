// Package hatch is the root of the hatch project scaffolder.
package hatch

// Version is the current hatch release.
const Version = "0.3.0"
