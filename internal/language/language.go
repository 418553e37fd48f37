// Package language picks the phonemizer voice for a word list.
package language

import (
	"path/filepath"
	"strings"
)

// Default is used when no hint is found in the file name.
const Default = "zlw/cs"

// Language describes a supported language.
type Language struct {
	Code string // short code looked for in file names
	ID   string // espeak-ng voice id
	Name string
}

// Known languages, in the order their codes are matched against file names.
var Known = []Language{
	{Code: "pl", ID: "zlw/pl", Name: "Polish"},
	{Code: "cs", ID: "zlw/cs", Name: "Czech"},
	{Code: "sk", ID: "zlw/sk", Name: "Slovak"},
	{Code: "uk", ID: "zle/uk", Name: "Ukrainian"},
	{Code: "sl", ID: "zls/sl", Name: "Slovenian"},
}

// Detect guesses the language of a word list from its file name. The
// second result is false when Default was returned for lack of a match.
func Detect(filename string) (string, bool) {
	base := strings.ToLower(filepath.Base(filename))
	for _, l := range Known {
		if strings.Contains(base, l.Code) {
			return l.ID, true
		}
	}
	return Default, false
}

// Resolve turns a configured value into a voice id. Short codes such as
// "uk" are expanded, anything else is passed through.
func Resolve(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, l := range Known {
		if v == l.Code {
			return l.ID
		}
	}
	return v
}

// DisplayName returns a human readable name for a voice id.
func DisplayName(id string) string {
	for _, l := range Known {
		if l.ID == id {
			return l.Name
		}
	}
	return id
}
