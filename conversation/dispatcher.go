package conversation

import (
	"context"
	"sync"
	"time"
)

// SessionStore persists sessions between events and restarts.
// Load returns nil, nil when the chat has no session.
type SessionStore interface {
	Load(ctx context.Context, chatID int64) (*Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, chatID int64) error
}

// Dispatcher serializes events per chat and persists the result of each.
type Dispatcher struct {
	engine *Engine
	store  SessionStore
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*chatLock
}

// chatLock is dropped from the table once nobody holds or waits for it, so
// the table only grows with chats that have an event in flight.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

func NewDispatcher(engine *Engine, store SessionStore) *Dispatcher {
	return &Dispatcher{engine: engine, store: store, now: time.Now, locks: make(map[int64]*chatLock)}
}

func (d *Dispatcher) lock(chatID int64) func() {
	d.mu.Lock()
	l, ok := d.locks[chatID]
	if !ok {
		l = &chatLock{}
		d.locks[chatID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, chatID)
		}
		d.mu.Unlock()
	}
}

func (d *Dispatcher) lockedChats() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.locks)
}

func (d *Dispatcher) load(ctx context.Context, chatID int64) (Session, error) {
	s, err := d.store.Load(ctx, chatID)
	if err != nil {
		return Session{}, NewCollaboratorError("load session", err)
	}
	if s == nil {
		return Session{ChatID: chatID}, nil
	}
	return *s, nil
}

// Handle applies ev to the chat's session under the chat's lock. The stored
// session only changes when the whole event applied. A paid order is returned
// in the transition even if saving the reset session failed.
func (d *Dispatcher) Handle(ctx context.Context, chatID int64, ev Event) (Transition, error) {
	unlock := d.lock(chatID)
	defer unlock()

	s, err := d.load(ctx, chatID)
	if err != nil {
		return Transition{}, err
	}
	tr, err := d.engine.Apply(ctx, s, ev)
	if err != nil || tr.Ignored {
		return tr, err
	}

	if tr.Session.State == StateTerminated {
		if err := d.store.Delete(ctx, chatID); err != nil {
			return tr, NewCollaboratorError("delete session", err)
		}
		return tr, nil
	}
	tr.Session.ChatID = chatID
	tr.Session.UpdatedAt = d.now()
	if err := d.store.Save(ctx, tr.Session); err != nil {
		return tr, NewCollaboratorError("save session", err)
	}
	return tr, nil
}

// ValidatePayment answers a pre-checkout query. It fails closed: any doubt
// about the payload is a mismatch.
func (d *Dispatcher) ValidatePayment(ctx context.Context, chatID int64, payload string) error {
	unlock := d.lock(chatID)
	defer unlock()

	s, err := d.load(ctx, chatID)
	if err != nil {
		return err
	}
	return CheckPayment(s, payload)
}
