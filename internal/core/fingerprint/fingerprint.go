// Package fingerprint computes content digests used as equality oracles for
// duplicate-upload detection. The digest is never used for security.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// blockSize bounds memory use regardless of file size.
const blockSize = 64 * 1024

// File computes the SHA-256 digest of a file's full byte content, streamed
// in fixed-size blocks.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Reader(f)
}

// Reader computes the SHA-256 digest of everything readable from r.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
