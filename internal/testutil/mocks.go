package testutil

import (
	"context"
	"fmt"
	"sync"
)

// FakePhonemizer answers from a fixed word to transcription table and
// records every call. Unknown words get "?", the placeholder used by real
// providers. It is safe for concurrent use.
type FakePhonemizer struct {
	Transcriptions map[string]string
	// Err, when set, fails every call.
	Err error
	// Unavailable is returned by IsAvailable.
	Unavailable error

	mu    sync.Mutex
	calls [][]string
	langs []string
}

// NewFakePhonemizer creates a fake serving the given table.
func NewFakePhonemizer(transcriptions map[string]string) *FakePhonemizer {
	return &FakePhonemizer{Transcriptions: transcriptions}
}

// Phonemize returns one transcription per word.
func (f *FakePhonemizer) Phonemize(ctx context.Context, words []string, lang string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), words...))
	f.langs = append(f.langs, lang)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}

	out := make([]string, len(words))
	for i, w := range words {
		ipa, ok := f.Transcriptions[w]
		if !ok {
			ipa = "?"
		}
		out[i] = ipa
	}
	return out, nil
}

// Name returns the provider name.
func (f *FakePhonemizer) Name() string {
	return "fake"
}

// IsAvailable reports Unavailable.
func (f *FakePhonemizer) IsAvailable() error {
	return f.Unavailable
}

// Calls returns the word lists of all calls so far.
func (f *FakePhonemizer) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([][]string(nil), f.calls...)
}

// Words returns every word passed to Phonemize, in call order.
func (f *FakePhonemizer) Words() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.calls {
		out = append(out, c...)
	}
	return out
}

// Langs returns the language of every call.
func (f *FakePhonemizer) Langs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.langs...)
}

// MemoryStore is an in-memory cache store.
type MemoryStore struct {
	mu      sync.Mutex
	Entries map[string]string
	SaveErr error
	Saves   int
}

// Load returns a copy of the stored entries.
func (m *MemoryStore) Load() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.Entries))
	for k, v := range m.Entries {
		out[k] = v
	}
	return out, nil
}

// Save replaces the stored entries.
func (m *MemoryStore) Save(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Entries = make(map[string]string, len(entries))
	for k, v := range entries {
		m.Entries[k] = v
	}
	return nil
}

// Path names the store in messages.
func (m *MemoryStore) Path() string {
	return fmt.Sprintf("memory:%p", m)
}

// Snapshot returns a copy of the stored entries and the number of saves.
func (m *MemoryStore) Snapshot() (map[string]string, int) {
	entries, _ := m.Load()
	m.mu.Lock()
	defer m.mu.Unlock()
	return entries, m.Saves
}
