package processor

import (
	"context"

	"codeberg.org/snonux/hyphipa/internal/ipacache"
	"codeberg.org/snonux/hyphipa/internal/phonemizer"
)

// partTranscriber feeds the resynthesis tie-break. Parts are looked up in
// the language's cache first, the misses go to the phonemizer in one call
// and are inserted into the cache.
type partTranscriber struct {
	cache      *ipacache.Cache
	phonemizer phonemizer.Phonemizer
	lang       string
}

func newPartTranscriber(cache *ipacache.Cache, p phonemizer.Phonemizer, lang string) *partTranscriber {
	return &partTranscriber{
		cache:      cache,
		phonemizer: p,
		lang:       lang,
	}
}

// Transcribe implements transfer.Transcriber.
func (t *partTranscriber) Transcribe(ctx context.Context, words []string) ([]string, error) {
	out := make([]string, len(words))
	var missing []string
	seen := make(map[string]bool)

	for i, w := range words {
		if ipa, ok := t.cache.Lookup(w); ok {
			out[i] = ipa
			continue
		}
		if !seen[w] {
			seen[w] = true
			missing = append(missing, w)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	got, err := t.phonemizer.Phonemize(ctx, missing, t.lang)
	if err != nil {
		return nil, err
	}

	fresh := make(map[string]string, len(missing))
	for i, w := range missing {
		if i >= len(got) {
			break
		}
		fresh[w] = got[i]
		if got[i] != "" && got[i] != phonemizer.Placeholder {
			t.cache.Insert(w, got[i])
		}
	}
	for i, w := range words {
		if out[i] == "" {
			out[i] = fresh[w]
		}
	}
	return out, nil
}
