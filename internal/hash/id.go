// Package hash provides the 64-bit hashes used to index beatmaps and to
// fingerprint files.
package hash

import (
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key computes the xxHash64 index key of a beatmap MD5 hex digest. Hex
// digits are lower-cased first so that keys do not depend on the case the
// digest was written in.
func Key(md5 string) uint64 {
	for i := 0; i < len(md5); i++ {
		if c := md5[i]; c >= 'A' && c <= 'Z' {
			return xxhash.Sum64String(strings.ToLower(md5))
		}
	}

	return xxhash.Sum64String(md5)
}

// Sum computes the xxHash64 of everything read from r.
func Sum(r io.Reader) (uint64, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, fmt.Errorf("hash: %w", err)
	}

	return d.Sum64(), nil
}
