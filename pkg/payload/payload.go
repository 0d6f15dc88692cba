// Package payload supplies the pre-built probe programs shipped with a
// driver package: the TLS test executable with its companion shared object,
// and the runtime-linker test executable, each in a native and a 32-bit
// build.
package payload

import (
	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/types"
)

// File names of the probe programs inside a package.
const (
	TLSTest      = "tls_test"
	TLSTestDSO   = "tls_test_dso.so"
	TLSTest32    = "tls_test_32"
	TLSTestDSO32 = "tls_test_dso_32.so"
	RTLDTest     = "rtld_test"
	RTLDTest32   = "rtld_test_32"
)

// Source returns the bytes of a named payload. A payload that is absent
// or empty yields an ErrNotFound error.
type Source interface {
	Get(name string) ([]byte, error)
}

// TLSProbe names the two halves of a TLS probe.
type TLSProbe struct {
	Test string
	DSO  string
}

// TLSProbeFor returns the TLS probe names for arch.
func TLSProbeFor(arch types.ArchClass) TLSProbe {
	if arch == types.ArchCompat32 {
		return TLSProbe{Test: TLSTest32, DSO: TLSTestDSO32}
	}
	return TLSProbe{Test: TLSTest, DSO: TLSTestDSO}
}

// RTLDProbeFor returns the runtime-linker probe name for arch.
func RTLDProbeFor(arch types.ArchClass) string {
	if arch == types.ArchCompat32 {
		return RTLDTest32
	}
	return RTLDTest
}

func missing(name string) error {
	return errors.Newf(errors.ErrNotFound, "payload %s is not present", name).
		WithDetail("payload", name)
}

// MapSource serves payloads from memory.
type MapSource map[string][]byte

func (m MapSource) Get(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok || len(data) == 0 {
		return nil, missing(name)
	}
	return data, nil
}
