package translit

import "testing"

func TestUkrainian(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"мо-ло-ко", "mo-lo-ko"},
		{"Ки-їв", "Ky'-yiv"},
		{"ща-стя", "shha-stya"},
		{"ґа-нок", "ga-nok"},
		{"го-род", "g'o-rod"},
		{"цирк", "cy'rk"},
		{"ку-ца", "ku-cza"},
		{"ць-о-го", "cz`-o-g'o"},
		{"сім'я", "sim''ya"},
		{"Щука", "Shhuka"},
		{"abc-1", "abc-1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Ukrainian(tt.input); got != tt.expected {
				t.Errorf("Ukrainian(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestForLanguage(t *testing.T) {
	if ForLanguage("zle/uk") == nil {
		t.Error("expected a transliteration for zle/uk")
	}
	for _, lang := range []string{"zlw/cs", "zlw/pl", ""} {
		if ForLanguage(lang) != nil {
			t.Errorf("expected no transliteration for %q", lang)
		}
	}
}
