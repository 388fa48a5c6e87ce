package ports

// Hasher defines the interface for computing content digests.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ManifestDigest returns the lowercase hex MD5 of the raw bytes of the manifest at path.
	ManifestDigest(path string) (string, error)

	// Digest returns the lowercase hex MD5 of data, matching ManifestDigest for
	// a file holding the same bytes.
	Digest(data []byte) string

	// FileChecksum returns a fast, non-cryptographic checksum of the file at path.
	FileChecksum(path string) (string, error)
}
