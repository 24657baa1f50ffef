package faker

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// stubRand returns float for every Float64 call and pick(n) for every IntN call.
type stubRand struct {
	float float64
	pick  func(n int) int
}

func (s stubRand) Float64() float64 { return s.float }

func (s stubRand) IntN(n int) int {
	if s.pick == nil {
		return 0
	}
	return s.pick(n)
}

func first(int) int { return 0 }

func last(n int) int { return n - 1 }

type stubText struct{}

func (stubText) Name() string { return "Ada Lovelace" }

func (stubText) LoremIpsumSentence(int) string { return "Lorem ipsum dolor." }

func newStubGenerator(pick func(int) int, float float64) *Generator {
	return NewGenerator(stubRand{float: float, pick: pick}, stubText{}, WithClock(fixedClock))
}

func newSeededGenerator(seed uint64) *Generator {
	return New(seed, WithClock(fixedClock))
}

func assertInWindow(t *testing.T, ts int64) {
	t.Helper()
	lower := fixedNow.Add(-DateWindow).UnixMilli()
	upper := fixedNow.UnixMilli()
	if ts < lower || ts > upper {
		t.Errorf("timestamp %d outside [%d, %d]", ts, lower, upper)
	}
}
