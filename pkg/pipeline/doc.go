// Package pipeline implements the asset bundling pipeline and the shell
// command layer used by the sitebuild tasks. Bundles are described as a
// plain target -> sources mapping and built strictly in order; commands
// are assembled into a single shell line and run through mvdan.cc/sh.
package pipeline
