package engine

import (
	"testing"

	"github.com/midasbot/midas/midas/economy/catalog"
)

// stubRand feeds scripted values to stochastic engine functions.
type stubRand struct {
	floats []float64
	norms  []float64
	ints   []int
	fi     int
	ni     int
	ii     int
}

func (s *stubRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *stubRand) NormFloat64() float64 {
	if len(s.norms) == 0 {
		return 0
	}
	v := s.norms[s.ni%len(s.norms)]
	s.ni++
	return v
}

func (s *stubRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

func testEngine() *Engine {
	return New(catalog.NewDefault())
}

func TestEngine_Classify(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name   string
		wealth int64
		want   catalog.Tier
	}{
		{name: "zero wealth", wealth: 0, want: catalog.TierLower},
		{name: "lower upper bound", wealth: 10_000, want: catalog.TierLower},
		{name: "middle lower bound", wealth: 10_001, want: catalog.TierMiddle},
		{name: "middle upper bound", wealth: 50_000, want: catalog.TierMiddle},
		{name: "upper lower bound", wealth: 50_001, want: catalog.TierUpper},
		{name: "upper upper bound", wealth: 200_000, want: catalog.TierUpper},
		{name: "elite lower bound", wealth: 200_001, want: catalog.TierElite},
		{name: "elite upper bound", wealth: 1_000_000, want: catalog.TierElite},
		{name: "oligarch lower bound", wealth: 1_000_001, want: catalog.TierOligarch},
		{name: "unbounded top", wealth: 1 << 50, want: catalog.TierOligarch},
		{name: "negative clamps to lowest", wealth: -500, want: catalog.TierLower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Classify(tt.wealth).Tier; got != tt.want {
				t.Errorf("Classify(%d) = %v, want %v", tt.wealth, got, tt.want)
			}
		})
	}
}

func TestEngine_Classify_TotalCoverage(t *testing.T) {
	e := testEngine()

	// Every step across a band edge must land in exactly one class.
	prev := e.Classify(0)
	for w := int64(1); w <= 1_100_000; w += 1 {
		cur := e.Classify(w)
		if cur.Tier != prev.Tier && prev.MaxWealth+1 != cur.MinWealth {
			t.Fatalf("gap between %v and %v at wealth %d", prev.Tier, cur.Tier, w)
		}
		prev = cur
	}
}
