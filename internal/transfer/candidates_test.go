package transfer

import (
	"math"
	"reflect"
	"testing"
)

func TestPositions(t *testing.T) {
	tests := []struct {
		name     string
		n, k     int
		expected [][]int
	}{
		{"two of five", 5, 2, [][]int{{1, 2}, {1, 3}, {2, 3}}},
		{"one of four", 4, 1, [][]int{{1}, {2}}},
		{"no boundaries", 4, 0, [][]int{nil}},
		{"too short", 2, 1, nil},
		{"too many boundaries", 5, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Positions(tt.n, tt.k)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Positions(%d, %d) = %v, want %v", tt.n, tt.k, got, tt.expected)
			}
			if c := Count(tt.n, tt.k); c != uint64(len(got)) {
				t.Errorf("Count(%d, %d) = %d, want %d", tt.n, tt.k, c, len(got))
			}
		})
	}
}

func TestPositionsNeverTouchEdges(t *testing.T) {
	const n = 9
	for k := 1; k <= n-2; k++ {
		for _, seq := range Positions(n, k) {
			if seq[0] == 0 || seq[len(seq)-1] >= n-1 {
				t.Fatalf("Positions(%d, %d) produced edge sequence %v", n, k, seq)
			}
			for i := 1; i < len(seq); i++ {
				if seq[i] <= seq[i-1] {
					t.Fatalf("sequence %v is not strictly increasing", seq)
				}
			}
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		n, k     int
		expected uint64
	}{
		{10, 3, 56},
		{40, 10, 472733756},
		{3, 1, 1},
		{3, 2, 0},
		{0, 0, 1},
		{200, 100, math.MaxUint64},
	}

	for _, tt := range tests {
		if got := Count(tt.n, tt.k); got != tt.expected {
			t.Errorf("Count(%d, %d) = %d, want %d", tt.n, tt.k, got, tt.expected)
		}
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		target    string
		positions []int
		expected  string
	}{
		{"nebojsa", []int{2, 5}, "ne-boj-sa"},
		{"ɡrˈafiks", []int{4}, "ɡrˈa-fiks"},
		{"nebojsa", nil, "nebojsa"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := Insert([]rune(tt.target), tt.positions); got != tt.expected {
				t.Errorf("Insert(%q, %v) = %q, want %q", tt.target, tt.positions, got, tt.expected)
			}
		})
	}
}

func TestStripAndCountMarkers(t *testing.T) {
	if got := Strip("ne-roz-hod-nost"); got != "nerozhodnost" {
		t.Errorf("Strip() = %q", got)
	}
	if got := CountMarkers("przy-rod-ni-czo--hu"); got != 5 {
		t.Errorf("CountMarkers() = %d, want 5", got)
	}
}

func TestBoundaries(t *testing.T) {
	rs, bounds := boundaries("a--bc-d")
	if string(rs) != "abcd" {
		t.Errorf("runes = %q, want %q", string(rs), "abcd")
	}
	if !reflect.DeepEqual(bounds, []int{1, 1, 3}) {
		t.Errorf("bounds = %v, want [1 1 3]", bounds)
	}
}
