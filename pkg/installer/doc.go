// Package installer materializes entries on disk.
//
// Regular files are copied through shared memory mappings: the destination
// is created with the requested mode, extended to the source size, both
// files are mapped and the bytes copied, and finally the mode is applied
// again explicitly so the process umask cannot narrow it. There is no
// fsync and no write-to-temp-then-rename; a failed copy leaves a partial
// destination behind.
//
// Template entries (libGL.la and .desktop files) are rendered into
// temporary files before resolution; the rendered copies are appended to
// the package as new entries.
package installer
