package viewer

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	values  []string
	index   map[string]struct{}
	expires time.Time
}

// MemoryStore keeps viewer sets in process memory. Entries expire ttl after
// their last write. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]*memEntry
}

// NewMemoryStore returns an empty store. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, data: make(map[string]*memEntry)}
}

func memKey(contextID, key string) string { return contextID + "\x00" + key }

// live returns the entry for k, dropping it when expired. Caller holds mu.
func (m *MemoryStore) live(k string) *memEntry {
	e := m.data[k]
	if e == nil {
		return nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.data, k)
		return nil
	}
	return e
}

func (m *MemoryStore) touch(e *memEntry) {
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
}

func (m *MemoryStore) Get(_ context.Context, contextID, key string) ([]string, bool, error) {
	if err := checkID(contextID); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(memKey(contextID, key))
	if e == nil {
		return nil, false, nil
	}
	return append([]string(nil), e.values...), true, nil
}

func (m *MemoryStore) Set(_ context.Context, contextID, key string, values []string) error {
	if err := checkID(contextID); err != nil {
		return err
	}
	e := &memEntry{index: make(map[string]struct{}, len(values))}
	for _, v := range values {
		if _, dup := e.index[v]; dup {
			continue
		}
		e.index[v] = struct{}{}
		e.values = append(e.values, v)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(e)
	m.data[memKey(contextID, key)] = e
	return nil
}

func (m *MemoryStore) Add(_ context.Context, contextID, key, value string) (bool, error) {
	if err := checkID(contextID); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey(contextID, key)
	e := m.live(k)
	if e == nil {
		e = &memEntry{index: make(map[string]struct{})}
		m.data[k] = e
	}
	m.touch(e)
	if _, seen := e.index[value]; seen {
		return false, nil
	}
	e.index[value] = struct{}{}
	e.values = append(e.values, value)
	return true, nil
}

func (m *MemoryStore) Remove(_ context.Context, contextID, key, value string) error {
	if err := checkID(contextID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(memKey(contextID, key))
	if e == nil {
		return nil
	}
	if _, ok := e.index[value]; !ok {
		return nil
	}
	delete(e.index, value)
	for i, v := range e.values {
		if v == value {
			e.values = append(e.values[:i], e.values[i+1:]...)
			break
		}
	}
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if m.live(k) == nil {
			n++
		}
	}
	return n
}

// Len returns the number of stored (viewer, key) sets, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// StartJanitor sweeps expired entries every interval until ctx is done.
func (m *MemoryStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Sweep()
			}
		}
	}()
}
