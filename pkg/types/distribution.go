package types

import "strings"

// Distribution identifies the host's Linux distribution for the handful of
// layout conventions that differ between them.
type Distribution int

const (
	DistributionOther Distribution = iota
	DistributionSUSE
	DistributionUnitedLinux
	DistributionDebian
	DistributionUbuntu
	DistributionGentoo
)

var distributionNames = map[Distribution]string{
	DistributionOther:       "other",
	DistributionSUSE:        "suse",
	DistributionUnitedLinux: "unitedlinux",
	DistributionDebian:      "debian",
	DistributionUbuntu:      "ubuntu",
	DistributionGentoo:      "gentoo",
}

func (d Distribution) String() string {
	if name, ok := distributionNames[d]; ok {
		return name
	}
	return "other"
}

// ParseDistribution maps a distribution name (case-insensitive) to its value.
func ParseDistribution(s string) (Distribution, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range distributionNames {
		if name == s {
			return d, true
		}
	}
	return DistributionOther, false
}

// FollowsLib64Convention is false for distributions that keep 64-bit
// libraries in "lib" on 64-bit hosts.
func (d Distribution) FollowsLib64Convention() bool {
	return d != DistributionDebian && d != DistributionUbuntu
}

// Compat32LibDir returns the directory name used for 32-bit compatibility
// libraries when it differs from "lib", or "".
func (d Distribution) Compat32LibDir() string {
	switch d {
	case DistributionUbuntu, DistributionGentoo:
		return "lib32"
	}
	return ""
}

// MarshalText renders the distribution name.
func (d Distribution) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
