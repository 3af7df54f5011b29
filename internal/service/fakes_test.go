package service

import (
	"context"
	"sync"

	"github.com/seatwise/seatwise/internal/model"
)

// fakeTxKey marks a context as already inside a fake transaction so nested
// ledger calls do not re-lock the mutex.
type fakeTxKey struct{}

// fakeLedger is an in-memory ledger. WithTx holds a mutex for the whole
// decision, mirroring the row-lock serialization of the Postgres
// implementation, so concurrent admissions are strictly ordered.
type fakeLedger struct {
	mu     sync.Mutex
	events map[string]*model.Event
	regs   []*model.Registration
}

func newFakeLedger(events ...*model.Event) *fakeLedger {
	m := make(map[string]*model.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return &fakeLedger{events: m}
}

func (f *fakeLedger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(context.WithValue(ctx, fakeTxKey{}, true))
}

func (f *fakeLedger) lock(ctx context.Context) func() {
	if ctx.Value(fakeTxKey{}) != nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeLedger) GetEventForUpdate(ctx context.Context, eventID string) (*model.Event, error) {
	defer f.lock(ctx)()
	event, ok := f.events[eventID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	cp := *event
	return &cp, nil
}

func (f *fakeLedger) FindLatest(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	defer f.lock(ctx)()
	// Rows are append-ordered, so the last match is the most recent even
	// when a fixed clock gives identical timestamps.
	var latest *model.Registration
	for _, reg := range f.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			latest = reg
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeLedger) HasConfirmed(ctx context.Context, eventID, userID string) (bool, error) {
	defer f.lock(ctx)()
	for _, reg := range f.regs {
		if reg.EventID == eventID && reg.UserID == userID && reg.Status == model.StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	defer f.lock(ctx)()
	count := 0
	for _, reg := range f.regs {
		if reg.EventID == eventID && reg.Status == model.StatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) Insert(ctx context.Context, reg *model.Registration) error {
	defer f.lock(ctx)()
	for _, existing := range f.regs {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID && existing.Status != model.StatusCancelled {
			return model.ErrAlreadyRegistered
		}
	}
	cp := *reg
	f.regs = append(f.regs, &cp)
	return nil
}

func (f *fakeLedger) MarkCancelled(ctx context.Context, id string) error {
	defer f.lock(ctx)()
	for _, reg := range f.regs {
		if reg.ID == id {
			reg.Status = model.StatusCancelled
			return nil
		}
	}
	return model.ErrRegistrationNotFound
}

func (f *fakeLedger) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	defer f.lock(ctx)()
	return f.filter(func(reg *model.Registration) bool { return reg.EventID == eventID }), nil
}

func (f *fakeLedger) ListByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	defer f.lock(ctx)()
	return f.filter(func(reg *model.Registration) bool { return reg.UserID == userID }), nil
}

func (f *fakeLedger) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Registration, error) {
	defer f.lock(ctx)()
	owned := make(map[string]bool)
	for id, event := range f.events {
		if event.OrganizerID == organizerID {
			owned[id] = true
		}
	}
	return f.filter(func(reg *model.Registration) bool { return owned[reg.EventID] }), nil
}

func (f *fakeLedger) filter(keep func(*model.Registration) bool) []model.Registration {
	var out []model.Registration
	for _, reg := range f.regs {
		if keep(reg) {
			out = append(out, *reg)
		}
	}
	return out
}

// removeEvent simulates an event deleted out from under its registrations.
func (f *fakeLedger) removeEvent(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
}

// fakeEventStore is an in-memory EventStore sharing the ledger's event map
// so directory reads and admission locks see the same records.
type fakeEventStore struct {
	ledger *fakeLedger
}

func (f *fakeEventStore) Create(ctx context.Context, event *model.Event) error {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	cp := *event
	f.ledger.events[event.ID] = &cp
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return f.ledger.GetEventForUpdate(ctx, id)
}

func (f *fakeEventStore) List(ctx context.Context) ([]model.Event, error) {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	var out []model.Event
	for _, e := range f.ledger.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEventStore) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	var out []model.Event
	for _, e := range f.ledger.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) SearchByTitle(ctx context.Context, title string) ([]model.Event, error) {
	return f.List(ctx)
}

func (f *fakeEventStore) SearchByLocation(ctx context.Context, location string) ([]model.Event, error) {
	return f.List(ctx)
}

func (f *fakeEventStore) Update(ctx context.Context, event *model.Event) error {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	if _, ok := f.ledger.events[event.ID]; !ok {
		return model.ErrEventNotFound
	}
	cp := *event
	f.ledger.events[event.ID] = &cp
	return nil
}

func (f *fakeEventStore) Delete(ctx context.Context, id string) error {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	if _, ok := f.ledger.events[id]; !ok {
		return model.ErrEventNotFound
	}
	delete(f.ledger.events, id)
	return nil
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	m := make(map[string]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserStore{users: m}
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return model.ErrEmailTaken
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	for id, existing := range f.users {
		if id != user.ID && existing.Email == user.Email {
			return model.ErrEmailTaken
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}
