// Package faker synthesizes internally-consistent mock messenger data: contacts,
// one-to-one and multi-member conversations, members and messages.
package faker

import (
	"fmt"
	"math"
	"strings"
	"time"

	fixture_errors "messenger-fixtures/pkg/errors"
	"messenger-fixtures/pkg/logger"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	// MaxMembers bounds the member count of a generated multi-member conversation.
	MaxMembers = 10
	// DateWindow is how far in the past generated timestamps may lie.
	DateWindow = 50 * 24 * time.Hour
)

// Rand is the randomness source used for every selection the generator makes.
type Rand interface {
	// Float64 returns a uniform float in [0,1).
	Float64() float64
	// IntN returns a uniform int in [0,n).
	IntN(n int) int
}

// Text produces human looking strings.
type Text interface {
	Name() string
	LoremIpsumSentence(wordCount int) string
}

type Generator struct {
	rnd  Rand
	text Text
	now  func() time.Time
	log  *logger.Logger
}

type Option func(*Generator)

// WithClock overrides the generation time reference.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New returns a generator backed by a single gofakeit source seeded with seed.
// A zero seed picks a random one.
func New(seed uint64, opts ...Option) *Generator {
	f := gofakeit.New(seed)
	return NewGenerator(f, f, opts...)
}

func NewGenerator(rnd Rand, text Text, opts ...Option) *Generator {
	g := &Generator{
		rnd:  rnd,
		text: text,
		now:  time.Now,
		log:  logger.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// pastMillis returns an epoch millisecond timestamp in (now - DateWindow, now].
func (g *Generator) pastMillis() int64 {
	window := float64(DateWindow / time.Millisecond)
	return g.now().UnixMilli() - int64(g.rnd.Float64()*window)
}

func (g *Generator) coin() bool {
	return g.rnd.IntN(2) == 1
}

// sentences returns between 1 and 5 lorem sentences.
func (g *Generator) sentences() string {
	n := 1 + g.rnd.IntN(5)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.text.LoremIpsumSentence(4 + g.rnd.IntN(8))
	}
	return strings.Join(parts, " ")
}

// checkKeySpace rejects ranges whose largest key index, (start+count)*stride, does not fit an int.
func checkKeySpace(name string, count, start, stride int) error {
	limit := math.MaxInt / stride
	if start > limit || count > limit-start {
		return fmt.Errorf("%s: %d records from %d overflow the key space: %w",
			name, count, start, fixture_errors.ErrInvalidArgument)
	}
	return nil
}

func checkNonNegative(name string, v int) error {
	if v < 0 {
		return fmt.Errorf("%s must not be negative, got %d: %w", name, v, fixture_errors.ErrInvalidArgument)
	}
	return nil
}
