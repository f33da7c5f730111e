// Package id derives stable surrogate keys from meaningful strings.
package id

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Size is the digest length in bytes. At 128 bits a collision among tens of
// millions of inputs is not a practical concern.
const Size = 16

// Len is the length of every string returned by Hash.
var Len = base64.RawURLEncoding.EncodedLen(Size)

// Hash returns the same 22 character key for the same input, on every run
// and every machine.
func Hash(value string) string {
	h, err := blake2b.New(Size, nil)
	if err != nil {
		// Only reachable with an invalid size or key.
		panic(fmt.Sprintf("blake2b: %v", err))
	}
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Build joins parts with "-", e.g. Build("Topic", 42) is "Topic-42".
func Build(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "-")
}
