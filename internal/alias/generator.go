// Package alias produces the short codes that identify bookmarks.
package alias

import (
	"crypto/rand"
	"errors"
	"math"
	"math/big"
)

// Alphabet is the 62-symbol character set aliases are drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ErrSpaceExhausted is returned when the generator has exhausted its retry
// budget at every permitted alias length. It is the hard base case that keeps
// collision retries from running unbounded.
var ErrSpaceExhausted = errors.New("alias space exhausted")

// Generator draws random alias candidates. Uniqueness is NOT guaranteed here;
// the bookmarks table's unique index on short_alias is the collision
// authority, and the create path redraws on a constraint violation.
type Generator struct {
	// BaseLength is the alias length while the space is unsaturated.
	BaseLength int

	// MaxLength bounds how far LengthFor may escalate.
	MaxLength int

	// MaxAttempts is the redraw budget per length before escalating.
	MaxAttempts int

	// Saturation is the live-population fraction of 62^length at which
	// LengthFor moves to the next length, keeping collision retries rare.
	Saturation float64
}

// NewGenerator returns a Generator with the default tuning: length 3 codes
// (238,328 values) escalating at 50% saturation, ten redraws per length,
// capped at length 8.
func NewGenerator() *Generator {
	return &Generator{
		BaseLength:  3,
		MaxLength:   8,
		MaxAttempts: 10,
		Saturation:  0.5,
	}
}

// Candidate draws a uniformly random alias of the given length.
func (g *Generator) Candidate(length int) (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// LengthFor returns the alias length to draw at given the live alias
// population: the smallest permitted length whose space is still below the
// saturation threshold.
func (g *Generator) LengthFor(population int64) int {
	length := g.BaseLength
	for length < g.MaxLength && float64(population) >= g.Saturation*math.Pow(float64(len(Alphabet)), float64(length)) {
		length++
	}
	return length
}
