package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/sha3"
)

// Algorithm is a named cryptographic hash used to fingerprint file content
type Algorithm struct {
	Name string
	New  func() hash.Hash
}

// DefaultAlgorithm matches the digest used by earlier releases of the tool
const DefaultAlgorithm = "md5"

var algorithms = map[string]func() hash.Hash{
	"md5":      md5.New,
	"sha1":     sha1.New,
	"sha256":   sha256.New,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
}

// Lookup returns the algorithm registered under name
func Lookup(name string) (Algorithm, error) {
	newHash, ok := algorithms[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
	return Algorithm{Name: name, New: newHash}, nil
}

// Algorithms lists the registered algorithm names in sorted order
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
