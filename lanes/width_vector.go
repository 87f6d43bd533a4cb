//go:build !scalar

package lanes

// Width is the number of particles per group.
const Width = 4
