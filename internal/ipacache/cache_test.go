package ipacache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]string
	saves   int
	err     error
}

func (m *memoryStore) Load() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, m.err
}

func (m *memoryStore) Save(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = entries
	m.saves++
	return nil
}

func (m *memoryStore) Path() string { return "memory" }

func (m *memoryStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func TestCacheLookupInsert(t *testing.T) {
	c := New(nil, nil)

	if _, ok := c.Lookup("nebojsa"); ok {
		t.Fatal("expected empty cache")
	}
	c.Insert("nebojsa", "nebojsa")
	c.Insert("graphics", "ɡrˈafiks")
	c.Insert("graphics", "ɡrˈæfɪks")

	if ipa, ok := c.Lookup("graphics"); !ok || ipa != "ɡrˈæfɪks" {
		t.Errorf("Lookup(graphics) = %q, %v; want last inserted value", ipa, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheSnapshotIsCopy(t *testing.T) {
	c := New(nil, nil)
	c.Insert("a", "1")

	snapshot := c.Snapshot()
	snapshot["b"] = "2"

	if _, ok := c.Lookup("b"); ok {
		t.Error("modifying the snapshot changed the cache")
	}
}

func TestCacheInvert(t *testing.T) {
	c := New(nil, nil)
	c.Insert("rozšoustat", "rˈosʃoʊstat")
	c.Insert("juniperus", "jˌuɲipˈɛrus")

	inverted := c.Invert()
	if inverted["rˈosʃoʊstat"] != "rozšoustat" || inverted["jˌuɲipˈɛrus"] != "juniperus" {
		t.Errorf("Invert() = %v", inverted)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(nil, nil)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("word%d", i)
				c.Insert(key, fmt.Sprintf("ipa%d", i))
				c.Lookup(key)
				if i%50 == 0 {
					c.Snapshot()
				}
			}
		}(w)
	}
	wg.Wait()

	if c.Len() != 200 {
		t.Errorf("Len() = %d, want 200", c.Len())
	}
}

func TestCacheLoadAndSave(t *testing.T) {
	store := &memoryStore{entries: map[string]string{"nebojsa": "nebojsa"}}

	c, err := Load(store, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Dirty() {
		t.Error("freshly loaded cache should not be dirty")
	}
	c.Insert("sekcja", "sˈɛktsja")
	if !c.Dirty() {
		t.Error("cache should be dirty after insert")
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if c.Dirty() {
		t.Error("cache should be clean after save")
	}
	if store.entries["sekcja"] != "sˈɛktsja" || store.entries["nebojsa"] != "nebojsa" {
		t.Errorf("store entries = %v", store.entries)
	}
}

func TestCacheLoadError(t *testing.T) {
	store := &memoryStore{err: ErrCorrupt}
	if _, err := Load(store, nil); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestCacheAutosave(t *testing.T) {
	store := &memoryStore{}
	c := New(store, nil)
	c.Insert("a", "1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Autosave(ctx, 10*time.Millisecond, nil)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.saveCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("autosave never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Nothing new was inserted, so further ticks must not save again.
	time.Sleep(50 * time.Millisecond)
	if n := store.saveCount(); n != 1 {
		t.Errorf("saves = %d, want 1", n)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("autosave did not stop after cancel")
	}
}

func TestCacheAutosaveReportsErrors(t *testing.T) {
	boom := errors.New("disk full")
	store := &memoryStore{err: boom}
	c := New(store, nil)
	c.Insert("a", "1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go c.Autosave(ctx, 10*time.Millisecond, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	select {
	case err := <-errs:
		if !errors.Is(err, boom) {
			t.Errorf("onError got %v, want %v", err, boom)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onError was never called")
	}
}
