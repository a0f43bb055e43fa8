package sessionstore

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/flexigpt/reflexhook-go/spec"
)

// MemoryStore keeps session state for the lifetime of the value. It is safe for
// concurrent use and stores copies, so callers never share slices with it.
//
// By default it is unbounded. SetTTL and SetMaxSessions enable LRU eviction;
// an evicted session starts over with empty state.
type MemoryStore struct {
	mu sync.Mutex

	ttl         time.Duration
	maxSessions int

	lru *list.List               // front=MRU
	m   map[string]*list.Element // id -> element(Value=*item)

	now func() time.Time
}

type item struct {
	id       string
	state    spec.SessionState
	lastUsed time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lru: list.New(),
		m:   map[string]*list.Element{},
		now: time.Now,
	}
}

// SetTTL drops sessions idle for longer than ttl. Zero disables expiry.
func (st *MemoryStore) SetTTL(ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}
	st.mu.Lock()
	st.ttl = ttl
	st.evictExpiredLocked(st.now())
	st.mu.Unlock()
}

func (st *MemoryStore) SetMaxSessions(maxSessions int) {
	if maxSessions < 0 {
		maxSessions = 0
	}
	st.mu.Lock()
	st.maxSessions = maxSessions
	st.evictOverLimitLocked()
	st.mu.Unlock()
}

// Len reports how many sessions are held.
func (st *MemoryStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lru.Len()
}

// Load keys on the session ID only; the workspace is ignored.
func (st *MemoryStore) Load(_ context.Context, key spec.SessionKey) (spec.SessionState, error) {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)

	e := st.m[key.ID]
	if e == nil {
		return spec.NewSessionState(), nil
	}
	it, _ := e.Value.(*item)
	if it == nil {
		st.deleteElemLocked(e)
		return spec.NewSessionState(), nil
	}
	it.lastUsed = now
	st.lru.MoveToFront(e)
	return it.state.Clone(), nil
}

func (st *MemoryStore) Save(_ context.Context, key spec.SessionKey, state spec.SessionState) error {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	st.evictExpiredLocked(now)

	if e := st.m[key.ID]; e != nil {
		if it, _ := e.Value.(*item); it != nil {
			it.state = state.Clone()
			it.lastUsed = now
			st.lru.MoveToFront(e)
			return nil
		}
		st.deleteElemLocked(e)
	}

	e := st.lru.PushFront(&item{id: key.ID, state: state.Clone(), lastUsed: now})
	st.m[key.ID] = e
	st.evictOverLimitLocked()
	return nil
}

func (st *MemoryStore) evictExpiredLocked(now time.Time) {
	if st.ttl <= 0 {
		return
	}
	for e := st.lru.Back(); e != nil; {
		prev := e.Prev()
		it, ok := e.Value.(*item)
		if !ok || it == nil {
			st.deleteElemLocked(e)
			e = prev
			continue
		}
		if now.Sub(it.lastUsed) <= st.ttl {
			break
		}
		st.deleteElemLocked(e)
		e = prev
	}
}

func (st *MemoryStore) evictOverLimitLocked() {
	if st.maxSessions <= 0 {
		return
	}
	for st.lru.Len() > st.maxSessions {
		e := st.lru.Back()
		if e == nil {
			return
		}
		st.deleteElemLocked(e)
	}
}

func (st *MemoryStore) deleteElemLocked(e *list.Element) {
	if it, _ := e.Value.(*item); it != nil {
		delete(st.m, it.id)
	}
	st.lru.Remove(e)
}
