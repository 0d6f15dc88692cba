package config

import (
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/types"
)

// DetectDistribution identifies the host distribution from its release
// files. Order matters: SUSE, UnitedLinux and Gentoo are recognized by
// marker files, Ubuntu by DISTRIB_ID in /etc/lsb-release, and Debian last
// since Ubuntu also ships /etc/debian_version.
func DetectDistribution(fsys types.FS) types.Distribution {
	markers := []struct {
		path   string
		distro types.Distribution
	}{
		{"/etc/SuSE-release", types.DistributionSUSE},
		{"/etc/UnitedLinux-release", types.DistributionUnitedLinux},
		{"/etc/gentoo-release", types.DistributionGentoo},
	}
	for _, m := range markers {
		if exists(fsys, m.path) {
			return m.distro
		}
	}

	if isUbuntu(fsys) {
		return types.DistributionUbuntu
	}

	if exists(fsys, "/etc/debian_version") {
		return types.DistributionDebian
	}
	return types.DistributionOther
}

// isUbuntu looks at the first line mentioning DISTRIB_ID only.
func isUbuntu(fsys types.FS) bool {
	data, err := fsys.ReadFile("/etc/lsb-release")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		idx := strings.Index(line, "DISTRIB_ID")
		if idx < 0 {
			continue
		}
		_, value, ok := strings.Cut(line[idx:], "=")
		if !ok {
			return false
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		return strings.EqualFold(value, "Ubuntu")
	}
	return false
}

func exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
