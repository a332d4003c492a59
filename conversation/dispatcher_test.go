package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-telegram/models"
)

type mapStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
	failSave bool
}

func newMapStore() *mapStore {
	return &mapStore{sessions: make(map[int64]Session)}
}

func (m *mapStore) Load(ctx context.Context, chatID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mapStore) Save(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("store down")
	}
	m.sessions[s.ChatID] = s
	return nil
}

func (m *mapStore) Delete(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

func TestDispatcherPersistsAndDeletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := newMapStore()
	d := NewDispatcher(f.engine, store)

	_, err := d.Handle(ctx, 7, Event{Kind: EventStart})
	require.NoError(t, err)
	s, _ := store.Load(ctx, 7)
	require.NotNil(t, s)
	assert.Equal(t, StateMenu, s.State)
	assert.False(t, s.UpdatedAt.IsZero())

	_, err = d.Handle(ctx, 7, Event{Kind: EventViewCart})
	require.NoError(t, err)
	s, _ = store.Load(ctx, 7)
	assert.Equal(t, StateCart, s.State)

	_, err = d.Handle(ctx, 7, Event{Kind: EventCancel})
	require.NoError(t, err)
	s, _ = store.Load(ctx, 7)
	assert.Nil(t, s)
}

func TestDispatcherFailedEventLeavesStoredSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := newMapStore()
	d := NewDispatcher(f.engine, store)

	_, err := d.Handle(ctx, 7, Event{Kind: EventStart})
	require.NoError(t, err)
	before, _ := store.Load(ctx, 7)

	_, err = d.Handle(ctx, 7, Event{Kind: EventPaymentConfirmed, Payload: "forged", ChargeID: "ch"})
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	after, _ := store.Load(ctx, 7)
	assert.Equal(t, before, after)
}

func TestDispatcherResumesAfterRestart(t *testing.T) {
	ctx := context.Background()
	store := newMapStore()
	f := newFixture(t)
	f.fillCart(t, 7, "p1")

	first := NewDispatcher(f.engine, store)
	for _, ev := range []Event{
		{Kind: EventStart},
		{Kind: EventViewCart},
		{Kind: EventRequestOrder},
		{Kind: EventText, Text: "Ann"},
	} {
		_, err := first.Handle(ctx, 7, ev)
		require.NoError(t, err)
	}

	// A new dispatcher over the same store continues the flow.
	second := NewDispatcher(f.engine, store)
	tr, err := second.Handle(ctx, 7, Event{Kind: EventText, Text: "ann@x.co"})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingLocation, tr.Session.State)
	assert.Equal(t, Contact{Name: "Ann", Email: "ann@x.co"}, tr.Session.Contact)
}

func TestDispatcherValidatePayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, 7, "p1")
	store := newMapStore()
	d := NewDispatcher(f.engine, store)

	assert.ErrorIs(t, d.ValidatePayment(ctx, 7, "anything"), ErrPaymentMismatch)

	s := orderSession()
	s.ChatID = 7
	require.NoError(t, store.Save(ctx, s))
	tr, err := d.Handle(ctx, 7, Event{Kind: EventSelectDelivery, DeliveryType: models.DeliveryFree})
	require.NoError(t, err)
	payload := tr.Session.InvoicePayload
	require.NotEmpty(t, payload)

	assert.NoError(t, d.ValidatePayment(ctx, 7, payload))
	assert.ErrorIs(t, d.ValidatePayment(ctx, 7, "forged"), ErrPaymentMismatch)

	stored, _ := store.Load(ctx, 7)
	assert.Equal(t, payload, stored.InvoicePayload, "validation must not mutate the session")
}

func TestDispatcherReturnsOrderWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, 7, "p1")
	store := newMapStore()
	d := NewDispatcher(f.engine, store)

	s := orderSession()
	s.ChatID = 7
	s.DeliveryType = models.DeliveryFree
	s.InvoicePayload = "token-0"
	require.NoError(t, store.Save(ctx, s))
	store.failSave = true

	tr, err := d.Handle(ctx, 7, Event{Kind: EventPaymentConfirmed, Payload: "token-0"})
	assert.ErrorIs(t, err, ErrCollaboratorUnavailable)
	require.NotNil(t, tr.Order)
}

func TestDispatcherSerializesPerChat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := newMapStore()
	d := NewDispatcher(f.engine, store)

	_, err := d.Handle(ctx, 7, Event{Kind: EventStart})
	require.NoError(t, err)
	_, err = d.Handle(ctx, 7, Event{Kind: EventSelectProduct, ProductID: "p1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Handle(ctx, 7, Event{Kind: EventAddToCart, ProductID: "p1"})
		}()
	}
	wg.Wait()

	cart, err := f.catalog.GetCart(ctx, "7")
	require.NoError(t, err)
	line, ok := cart.Line("p1")
	require.True(t, ok)
	assert.Equal(t, 20, line.Quantity)
	assert.Zero(t, d.lockedChats())
}

func TestDispatcherReleasesChatLocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := NewDispatcher(f.engine, newMapStore())

	for chat := int64(1); chat <= 50; chat++ {
		_, err := d.Handle(ctx, chat, Event{Kind: EventStart})
		require.NoError(t, err)
		_, err = d.Handle(ctx, chat, Event{Kind: EventCancel})
		require.NoError(t, err)
	}
	assert.Zero(t, d.lockedChats())

	unlock := d.lock(9)
	assert.Equal(t, 1, d.lockedChats())
	unlock()
	assert.Zero(t, d.lockedChats())
}
