package engine

import (
	"crypto/rand"
)

// letterBytes is the alphanumeric alphabet used for generated ids,
// restricted to URL-safe characters.
const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	roomIDLength  = 8
	userIDLength  = 10
	trackIDLength = 8
)

// IDGenerator produces opaque, URL-safe random strings of a fixed alphabet.
type IDGenerator interface {
	GenerateRandomString(length int) string
}

type randGenerator struct{}

// NewIDGenerator returns the production IDGenerator.
func NewIDGenerator() IDGenerator {
	return randGenerator{}
}

func (randGenerator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable; fall back would silently
		// weaken ID collision guarantees, so panic is preferable here.
		panic(err)
	}
	for i, v := range buf {
		b[i] = letterBytes[int(v)%len(letterBytes)]
	}
	return string(b)
}
