// internal/wizard/submit-application/reference.go
package submitapplication

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"grant-portal/internal/common/config"
)

const referenceSpace = 100000

// ReferenceGenerator yields candidate application ids. Uniqueness is
// enforced by the store, not the generator.
type ReferenceGenerator interface {
	Next(year int) string
}

// FormatReference renders APH-<year>-<5 digit number>.
func FormatReference(year, n int) string {
	return fmt.Sprintf("APH-%d-%05d", year, n%referenceSpace)
}

type randomGenerator struct{}

func (randomGenerator) Next(year int) string {
	return FormatReference(year, rand.IntN(referenceSpace))
}

// SequentialGenerator counts up from a starting number.
type SequentialGenerator struct {
	next atomic.Int64
}

func NewSequentialGenerator(start int64) *SequentialGenerator {
	g := &SequentialGenerator{}
	g.next.Store(start)
	return g
}

func (g *SequentialGenerator) Next(year int) string {
	n := g.next.Add(1) - 1
	return FormatReference(year, int(n))
}

// NewReferenceGenerator returns the generator for strategy. start is only
// used by the sequential strategy.
func NewReferenceGenerator(strategy string, start int64) ReferenceGenerator {
	if strategy == config.ReferenceStrategySequential {
		return NewSequentialGenerator(start)
	}
	return randomGenerator{}
}
