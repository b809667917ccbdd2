package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"time"
)

// Bug ids are 24 hex characters: a 4-byte big-endian unix timestamp
// followed by 8 random bytes. The format is checked case-insensitively
// but generated lowercase.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidID reports whether id is a well-formed bug identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// NewID generates a new unique bug identifier.
func NewID() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	// rand.Read never fails on supported platforms; it panics internally
	// if the kernel entropy source is broken.
	_, _ = rand.Read(raw[4:])
	return hex.EncodeToString(raw[:])
}
