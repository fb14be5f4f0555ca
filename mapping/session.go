package mapping

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rustyeddy/tradeops/pkg/id"
	"github.com/rustyeddy/tradeops/schema"
	"github.com/rustyeddy/tradeops/trade"
)

// Session holds the mapping a user is correcting for one upload. It is not
// safe for concurrent use; one interactive session owns it.
type Session struct {
	ID       string
	Type     trade.DataType
	Strategy Strategy

	headers []string
	fields  schema.FieldSet
	current Mapping
}

// NewSession starts a session over ds for dt and proposes an initial mapping.
func NewSession(ds trade.Dataset, dt trade.DataType, s Strategy) *Session {
	if s == "" {
		s = Flexible
	}
	sess := &Session{
		ID:       id.New(),
		Type:     dt,
		Strategy: s,
		headers:  append([]string(nil), ds.Headers...),
		fields:   schema.For(dt),
	}
	sess.AutoMap()
	return sess
}

func (s *Session) Headers() []string       { return append([]string(nil), s.headers...) }
func (s *Session) Fields() schema.FieldSet { return append(schema.FieldSet(nil), s.fields...) }

// Mapping returns a copy of the current mapping.
func (s *Session) Mapping() Mapping { return s.current.Clone() }

// AutoMap discards manual edits and recomputes the mapping.
func (s *Session) AutoMap() {
	m, err := Build(s.Strategy, s.fields, s.headers)
	if err != nil {
		m = BuildFlexible(s.fields, s.headers)
	}
	s.current = m
}

// SwitchType changes the declared data type and recomputes the mapping
// against the new field set.
func (s *Session) SwitchType(dt trade.DataType) {
	s.Type = dt
	s.fields = schema.For(dt)
	s.AutoMap()
}

// Set points key at header. Both must belong to the session.
func (s *Session) Set(key, header string) error {
	if _, ok := s.fields.Lookup(key); !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnknownField, key, s.Type)
	}
	found := false
	for _, h := range s.headers {
		if h == header {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownHeader, header)
	}
	s.current[key] = header
	return nil
}

// Clear unmaps key.
func (s *Session) Clear(key string) { delete(s.current, key) }

func (s *Session) Status() Status { return StatusOf(s.fields, s.current) }

// Ready is the process-step gate: true once every required field is mapped.
func (s *Session) Ready() bool { return s.Status().Complete() }

// Sessions keeps open mapping sessions by ID. Entries expire after ttl of
// inactivity.
type Sessions struct {
	ttl   time.Duration
	store *cache.Cache
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, store: cache.New(ttl, 2*ttl)}
}

// Open starts a session and registers it.
func (s *Sessions) Open(ds trade.Dataset, dt trade.DataType, strat Strategy) *Session {
	sess := NewSession(ds, dt, strat)
	s.store.Set(sess.ID, sess, s.ttl)
	return sess
}

// Get returns the session and extends its lifetime.
func (s *Sessions) Get(sessionID string) (*Session, bool) {
	v, ok := s.store.Get(sessionID)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	s.store.Set(sessionID, sess, s.ttl)
	return sess, true
}

func (s *Sessions) Close(sessionID string) { s.store.Delete(sessionID) }

func (s *Sessions) Len() int { return s.store.ItemCount() }
