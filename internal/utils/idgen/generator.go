package idgen

import (
	"crypto/rand"
	"fmt"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID generates a cryptographically random identifier of the form
// "<prefix>_<length alphanumeric chars>". Only 0-9 and lowercase a-z are
// used so the result is safe in URLs, filenames and log lines.
func NewID(prefix string, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("%s_%s", prefix, buf), nil
}

// MustNewID is NewID but panics on failure. crypto/rand only fails when the
// OS entropy source is broken, at which point the process is unusable anyway.
func MustNewID(prefix string, length int) string {
	id, err := NewID(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}
