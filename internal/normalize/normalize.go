package normalize

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// table maps IPA symbols and a few orthographic letters onto their closest
// ASCII-like counterpart. One rune in, one rune out.
var table = map[rune]rune{
	'ɡ': 'g',
	'ʃ': 's',
	'ʊ': 'u',
	'ɔ': 'o',
	'ɲ': 'n',
	'ŋ': 'n',
	'ɨ': 'i',
	'ʒ': 'z',
	'ɛ': 'e',
	'š': 's',

	'ʂ': 's',
	'ʐ': 'z',
	'ɕ': 's',
	'ʑ': 'z',
	'ɾ': 'r',
	'ɪ': 'i',
	'ə': 'e',
	'æ': 'a',
	'ɑ': 'a',
	'ɒ': 'o',
	'ʌ': 'a',
	'ɐ': 'a',
	'ɣ': 'g',
	'ɦ': 'h',
	'ʎ': 'l',
	'ɫ': 'l',
	'ʋ': 'v',
}

// baseLetters maps precomposed Latin letters to their base letter, e.g.
// 'č' to 'c'. Built once from the NFD decomposition.
var baseLetters = buildBaseLetters()

func buildBaseLetters() map[rune]rune {
	ranges := [][2]rune{
		{0x00C0, 0x024F}, // Latin-1 Supplement, Extended-A, Extended-B
		{0x1E00, 0x1EFF}, // Latin Extended Additional
	}
	m := make(map[rune]rune)
	for _, rng := range ranges {
		for r := rng[0]; r <= rng[1]; r++ {
			d := []rune(norm.NFD.String(string(r)))
			if len(d) > 1 && !unicode.Is(unicode.Mn, d[0]) {
				m[r] = d[0]
			}
		}
	}
	return m
}

// Rune normalizes a single rune. Combining marks are returned unchanged so
// that the result always has the same length as the input.
func Rune(r rune) rune {
	r = unicode.ToLower(r)
	if m, ok := table[r]; ok {
		return m
	}
	if b, ok := baseLetters[r]; ok {
		return b
	}
	return r
}

// Runes normalizes rs rune by rune into a new slice of equal length.
// Use it wherever positions in the normalized form must line up with the
// positions in the original.
func Runes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = Rune(r)
	}
	return out
}

// String normalizes s and drops any combining marks left over, such as the
// syllabic mark in "r̩". The result may be shorter than s.
func String(s string) string {
	folded := string(Runes([]rune(s)))
	// A transform.Chain keeps state, so every call gets its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, folded)
	if err != nil {
		return folded
	}
	return out
}
