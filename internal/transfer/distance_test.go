package transfer

import (
	"reflect"
	"testing"

	"github.com/antzucaro/matchr"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"gra-phics", "grˈa-fiks", 4},
		{"ne-boj-sa", "ne-boj-sa", 0},
		{"sek-cja", "sˈek-tsja", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestBoundedLevenshteinAgreesWithMatchr(t *testing.T) {
	pairs := [][2]string{
		{"rˈos-soustat", "ros-sou-stat"},
		{"jˌu-ni-pˈe-rus", "ju-ni-pe-rus"},
		{"nˈeroshˌodnost", "ne-roz-hod-nost"},
		{"przyrodniczo", "pʃɨrodnitʃo"},
		{"a", "b"},
	}

	for _, p := range pairs {
		a, b := []rune(p[0]), []rune(p[1])
		want := matchr.Levenshtein(p[0], p[1])
		for bound := 0; bound <= len(a)+len(b); bound++ {
			got := boundedLevenshtein(a, b, bound)
			if want <= bound && got != want {
				t.Errorf("bound %d: boundedLevenshtein(%q, %q) = %d, want %d", bound, p[0], p[1], got, want)
			}
			if want > bound && got != bound+1 {
				t.Errorf("bound %d: boundedLevenshtein(%q, %q) = %d, want %d", bound, p[0], p[1], got, bound+1)
			}
		}
	}
}

func TestRefine(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		candidates []string
		expected   []string
		distance   int
	}{
		{
			name:       "single closest",
			source:     "ne-boj-sa",
			candidates: []string{"n-eboj-sa", "ne-boj-sa", "ne-bo-jsa"},
			expected:   []string{"ne-boj-sa"},
			distance:   0,
		},
		{
			name:       "tie keeps order",
			source:     "sek-cja",
			candidates: []string{"sˈek-tsja", "sˈekt-sja"},
			expected:   []string{"sˈek-tsja", "sˈekt-sja"},
			distance:   3,
		},
		{
			name:       "empty",
			source:     "a-b",
			candidates: nil,
			expected:   nil,
			distance:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, d := Refine(tt.source, tt.candidates)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Refine() = %v, want %v", got, tt.expected)
			}
			if d != tt.distance {
				t.Errorf("Refine() distance = %d, want %d", d, tt.distance)
			}
		})
	}
}
