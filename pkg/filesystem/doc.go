// Package filesystem provides the read-side filesystem implementations used
// by the resolver, the manifest reader and the verifier.
//
// NewOS talks to the host; NewAferoFS wraps any afero.Fs and is what tests
// use with an in-memory filesystem.
package filesystem
