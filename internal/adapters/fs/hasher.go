// Package fs provides filesystem-backed hashing for manifests and archives.
package fs

import (
	"crypto/md5" //nolint:gosec // digest format is fixed by the cache file, not used for security
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes manifest digests and archive checksums.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ManifestDigest returns the MD5 of the raw manifest bytes as lowercase hex.
// Any byte change, formatting included, yields a different digest.
func (h *Hasher) ManifestDigest(path string) (string, error) {
	d := md5.New() //nolint:gosec // see import
	if err := hashFile(path, d); err != nil {
		return "", err
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// Digest returns the MD5 of data as lowercase hex.
func (h *Hasher) Digest(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// FileChecksum computes the XXHash of a file's content.
func (h *Hasher) FileChecksum(path string) (string, error) {
	d := xxhash.New()
	if err := hashFile(path, d); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}

func hashFile(path string, w hash.Hash) error {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	if _, err := io.Copy(w, f); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return nil
}
