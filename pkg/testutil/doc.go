// Package testutil provides test doubles for the collaborators of the
// installer components: a recording UI, a scripted process runner and an
// in-memory filesystem.
package testutil
