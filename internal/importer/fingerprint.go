package importer

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// normalize cleans one side of a card for fingerprinting: lowercased,
// trimmed, line endings unified.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return s
}

// Fingerprint returns a stable SHA-256 hex digest of a card's content.
// Two cards that differ only in casing, surrounding whitespace or line
// endings fingerprint identically, which is what import dedupe wants.
func Fingerprint(front, back string) string {
	// Joined with a newline so "ab"+"c" and "a"+"bc" stay distinct.
	normalized := normalize(front) + "\n" + normalize(back)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(normalized)))
}
