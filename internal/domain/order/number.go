package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

// MaxNumberAttempts bounds how many order numbers placement tries before
// giving up with ErrOrderNumberExhausted.
const MaxNumberAttempts = 5

// NumberPattern matches a generated order number
var NumberPattern = regexp.MustCompile(`^ORD-\d{14}-\d{4}$`)

// NumberGenerator produces order numbers of the form
// ORD-<YYYYMMDDHHMMSS>-<NNNN> using the UTC clock and a 4-digit suffix.
// Uniqueness is enforced by the store, not by the generator.
type NumberGenerator struct {
	now    func() time.Time
	suffix func() int
}

// NewNumberGenerator returns a generator backed by the wall clock
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{
		now:    time.Now,
		suffix: func() int { return 1000 + rand.IntN(9000) },
	}
}

// NewNumberGeneratorWith returns a generator with injected clock and suffix
// sources
func NewNumberGeneratorWith(now func() time.Time, suffix func() int) *NumberGenerator {
	return &NumberGenerator{now: now, suffix: suffix}
}

// Next returns a fresh order number
func (g *NumberGenerator) Next() string {
	return fmt.Sprintf("ORD-%s-%04d", g.now().UTC().Format("20060102150405"), g.suffix())
}
