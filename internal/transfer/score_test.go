package transfer

import (
	"testing"

	"codeberg.org/snonux/hyphipa/internal/normalize"
)

func TestOverlap(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"sek", "sek", 3},
		{"aab", "abb", 2},
		{"tsja", "sja", 3},
		{"", "abc", 0},
		{"?", "sek", 0},
	}

	for _, tt := range tests {
		if got := Overlap(tt.a, tt.b); got != tt.expected {
			t.Errorf("Overlap(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		source, candidate string
		expected          int
	}{
		{"gra-phics", "ɡrˈa-fiks", 5},
		{"ne-boj-sa", "ne-boj-sa", 14},
		{"sek-cja", "sˈɛk-tsja", 5},
		{"sek-cja", "sˈɛkt-sja", 5},
	}

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			got := Score(normalize.String(tt.source), normalize.String(tt.candidate))
			if got != tt.expected {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.source, tt.candidate, got, tt.expected)
			}
		})
	}
}

func TestScorerMatchesScore(t *testing.T) {
	source := normalize.String("roz-šou-stat")
	target := normalize.Runes([]rune("rˈosʃoʊstat"))
	src, bounds := boundaries(source)
	sc := newScorer(src, bounds, target)

	for _, seq := range Positions(len(target), len(bounds)) {
		want := Score(source, Insert(target, seq))
		if got := sc.score(seq); got != want {
			t.Fatalf("scorer(%v) = %d, Score = %d", seq, got, want)
		}
	}
}
