// Package checksum computes and compares the file digests recorded in
// package manifests. Digests are written as "<algorithm>:<hex>".
package checksum

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/arthur-debert/driverinstall/pkg/errors"
	"github.com/arthur-debert/driverinstall/pkg/types"
	"github.com/zeebo/blake3"
)

// Algorithm names as they appear in manifests.
const (
	SHA256 = "sha256"
	BLAKE3 = "blake3"
)

func newHash(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case SHA256:
		return sha256.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported checksum algorithm %q", algorithm)
	}
}

// Split separates a digest into algorithm and hex value.
func Split(digest string) (algorithm, value string, err error) {
	algorithm, value, ok := strings.Cut(digest, ":")
	if !ok || value == "" {
		return "", "", errors.Newf(errors.ErrInvalidInput, "malformed checksum %q", digest)
	}
	if _, err := newHash(algorithm); err != nil {
		return "", "", err
	}
	return algorithm, strings.ToLower(value), nil
}

// IsDigest reports whether s looks like a supported digest.
func IsDigest(s string) bool {
	_, _, err := Split(s)
	return err == nil
}

// Reader computes the digest of r with algorithm.
func Reader(algorithm string, r io.Reader) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", errors.Wrap(err, errors.ErrFileOpen, "unable to read data for checksum")
	}
	return fmt.Sprintf("%s:%x", algorithm, h.Sum(nil)), nil
}

// File computes the digest of the file at path with algorithm.
func File(fsys types.FS, algorithm, path string) (string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileOpen, "unable to open %s for checksum", path).
			WithDetail("path", path)
	}
	defer func() {
		_ = file.Close()
	}()

	return Reader(algorithm, file)
}

// Verify recomputes the digest of path with the algorithm named in expected
// and reports whether it matches. The computed digest is returned for
// diagnostics.
func Verify(fsys types.FS, path, expected string) (bool, string, error) {
	algorithm, value, err := Split(expected)
	if err != nil {
		return false, "", err
	}
	actual, err := File(fsys, algorithm, path)
	if err != nil {
		return false, "", err
	}
	return actual == algorithm+":"+value, actual, nil
}
