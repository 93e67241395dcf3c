package recognition

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// memStore is an in-memory participant store with optimistic versions and
// staged transactional writes. It satisfies participantRepo, auditLogger
// and txManager.
type memStore struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]*domain.Participant
	audits []domain.AuditRecord

	// conflicts makes the next N Save calls fail with ErrConflict.
	conflicts int
	saves     int
}

type stagedWritesKey struct{}

type stagedWrites struct {
	mu     sync.Mutex
	writes map[uuid.UUID]*domain.Participant
	audits []domain.AuditRecord
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uuid.UUID]*domain.Participant)}
}

func (m *memStore) add(p *domain.Participant) *domain.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Version == 0 {
		p.Version = 1
	}
	m.rows[p.ID] = cloneParticipant(p)
	return p
}

// newParticipant stores and returns a fresh participant.
func (m *memStore) newParticipant(alias string) uuid.UUID {
	p := m.add(&domain.Participant{ID: uuid.New(), Alias: alias, Emoji: "🦊"})
	return p.ID
}

// get returns a committed snapshot, bypassing any transaction.
func (m *memStore) get(id uuid.UUID) *domain.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil
	}
	return cloneParticipant(p)
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("participant %s: %w", id, domain.ErrNotFound)
	}
	return cloneParticipant(p), nil
}

func (m *memStore) Save(ctx context.Context, p *domain.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conflicts > 0 {
		m.conflicts--
		return fmt.Errorf("participant %s: %w", p.ID, domain.ErrConflict)
	}
	cur, ok := m.rows[p.ID]
	if !ok {
		return fmt.Errorf("participant %s: %w", p.ID, domain.ErrNotFound)
	}
	if cur.Version != p.Version {
		return fmt.Errorf("participant %s: %w", p.ID, domain.ErrConflict)
	}

	p.Version++
	p.UpdatedAt = time.Now()
	m.saves++

	if st, ok := ctx.Value(stagedWritesKey{}).(*stagedWrites); ok {
		st.mu.Lock()
		st.writes[p.ID] = cloneParticipant(p)
		st.mu.Unlock()
		return nil
	}
	m.rows[p.ID] = cloneParticipant(p)
	return nil
}

func (m *memStore) Log(ctx context.Context, record domain.AuditRecord) error {
	if st, ok := ctx.Value(stagedWritesKey{}).(*stagedWrites); ok {
		st.mu.Lock()
		st.audits = append(st.audits, record)
		st.mu.Unlock()
		return nil
	}
	m.mu.Lock()
	m.audits = append(m.audits, record)
	m.mu.Unlock()
	return nil
}

// auditLog returns the committed audit actions in order.
func (m *memStore) auditLog() []domain.AuditAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditAction, len(m.audits))
	for i, r := range m.audits {
		out[i] = r.Action
	}
	return out
}

// RunInTx stages writes and commits them all-or-nothing, rechecking
// versions at commit time.
func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	st := &stagedWrites{writes: make(map[uuid.UUID]*domain.Participant)}
	if err := fn(context.WithValue(ctx, stagedWritesKey{}, st)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range st.writes {
		if m.rows[id].Version != p.Version-1 {
			return fmt.Errorf("commit participant %s: %w", id, domain.ErrConflict)
		}
	}
	for id, p := range st.writes {
		m.rows[id] = p
	}
	m.audits = append(m.audits, st.audits...)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func cloneParticipant(p *domain.Participant) *domain.Participant {
	out := *p
	out.RecognizedEdges = cloneRecords(p.RecognizedEdges)
	out.RecognizerEdges = cloneRecords(p.RecognizerEdges)
	out.RecognitionStats.LastChallengeAt = cloneTime(p.RecognitionStats.LastChallengeAt)
	out.Reputation.Badges = slices.Clone(p.Reputation.Badges)
	return &out
}

func cloneRecords(in []domain.RecognitionRecord) []domain.RecognitionRecord {
	if in == nil {
		return nil
	}
	out := make([]domain.RecognitionRecord, len(in))
	for i, r := range in {
		r.LastRevokedAt = cloneTime(r.LastRevokedAt)
		r.CanRecognizeAgainAt = cloneTime(r.CanRecognizeAgainAt)
		r.Compliments = slices.Clone(r.Compliments)
		out[i] = r
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
