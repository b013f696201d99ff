package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable hex digest of the given content. Used to detect
// whether a stored file changed between scans.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
