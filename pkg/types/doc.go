// Package types defines the entry model shared by every installation phase:
// the Entry itself, its three independent classification axes (Category,
// ArchClass, ABIClass), the Package collection that holds entries, and the
// filesystem interface the read-only components depend on.
package types
