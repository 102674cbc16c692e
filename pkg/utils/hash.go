package utils

import (
	"crypto/sha256"
	"fmt"
)

// HashStrings produces a stable cache key from the concatenation of its
// parts. Parts are length-prefixed so ("ab","c") and ("a","bc") differ.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s", len(p), p)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
