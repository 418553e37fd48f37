// Package translit romanizes Cyrillic words before their boundaries are
// transferred, so that the similarity scorer can compare them with Latin
// based IPA.
package translit

import (
	"strings"
	"unicode"
)

// ukrainian follows GOST 7.79-2000 System B. The letter ц is handled
// separately because its rendering depends on the next letter.
var ukrainian = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g'", 'ґ': "g",
	'д': "d", 'е': "e", 'є': "ye", 'ж': "zh", 'з': "z",
	'и': "y'", 'і': "i", 'ї': "yi", 'й': "j", 'к': "k",
	'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p",
	'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f",
	'х': "x", 'ч': "ch", 'ш': "sh", 'щ': "shh", 'ь': "`",
	'ю': "yu", 'я': "ya",
	'\'': "''", '’': "''", 'ʼ': "''",
}

// Ukrainian transliterates s rune by rune. Characters outside the alphabet,
// including the boundary marker, are kept as they are. Capital letters
// produce a capitalized transliteration.
func Ukrainian(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		lower := unicode.ToLower(r)
		var out string
		if lower == 'ц' {
			out = "cz"
			if i+1 < len(rs) && softensC(unicode.ToLower(rs[i+1])) {
				out = "c"
			}
		} else if t, ok := ukrainian[lower]; ok {
			out = t
		} else {
			b.WriteRune(r)
			continue
		}
		if lower != r {
			out = capitalize(out)
		}
		b.WriteString(out)
	}
	return b.String()
}

// softensC reports whether ц is written as plain "c" before r.
func softensC(r rune) bool {
	switch r {
	case 'і', 'е', 'и', 'й':
		return true
	}
	return false
}

func capitalize(s string) string {
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// ForLanguage returns the transliteration applied to words of the given
// language id, or nil when words are used as they are.
func ForLanguage(lang string) func(string) string {
	switch lang {
	case "zle/uk":
		return Ukrainian
	}
	return nil
}
