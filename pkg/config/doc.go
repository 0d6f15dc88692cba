// Package config holds the installer configuration: installation prefixes,
// operator overrides and the facts detected about the host (distribution,
// word size, X module directory, tool locations, SELinux state).
//
// Loading is layered with koanf: embedded defaults, the system config file,
// DRIVERINSTALL_* environment variables and finally command-line overrides.
// Resolve then fills in the host facts.
package config
