package domain

import (
	"math/rand/v2"
	"strings"
)

const (
	idPrefix   = "Vx_"
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	idRandLen  = 6
)

// RandomIDGenerator mints ids of the form "Vx_" followed by six random
// alphanumerics. The namespace is shared between staging and durable storage;
// collisions are possible but not checked (62^6 ids against low expected
// concurrency).
type RandomIDGenerator struct{}

var _ IDGenerator = RandomIDGenerator{}

func (RandomIDGenerator) NewID() string {
	var b strings.Builder
	b.Grow(len(idPrefix) + idRandLen)
	b.WriteString(idPrefix)
	for i := 0; i < idRandLen; i++ {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}
	return b.String()
}
