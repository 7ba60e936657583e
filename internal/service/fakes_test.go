package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/calendar"
	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/google/uuid"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*model.User
	nextID int64
	writes int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	f.writes++
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.writes++
	return nil
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}

type fakeSchedules struct {
	byOwner map[int64]*model.Schedule
}

func newFakeSchedules() *fakeSchedules {
	return &fakeSchedules{byOwner: map[int64]*model.Schedule{}}
}

func (f *fakeSchedules) GetByOwnerID(_ context.Context, ownerID int64) (*model.Schedule, error) {
	return f.byOwner[ownerID], nil
}

func (f *fakeSchedules) Save(_ context.Context, s *model.Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.byOwner[s.OwnerID] = s
	return nil
}

func (f *fakeSchedules) UpdateTimezone(_ context.Context, ownerID int64, timezone string) error {
	s, ok := f.byOwner[ownerID]
	if !ok {
		s = &model.Schedule{ID: uuid.New(), OwnerID: ownerID}
		f.byOwner[ownerID] = s
	}
	s.Timezone = timezone
	return nil
}

type fakeEvents struct {
	byID map[uuid.UUID]*model.Event
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{byID: map[uuid.UUID]*model.Event{}}
}

func (f *fakeEvents) Create(_ context.Context, e *model.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e *model.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return errors.New("event not found")
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id uuid.UUID, ownerID int64) error {
	e, ok := f.byID[id]
	if !ok || e.OwnerID != ownerID {
		return errors.New("event not found")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) GetByOwnerID(_ context.Context, ownerID int64) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.byID {
		if e.OwnerID == ownerID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEvents) GetActiveByOwnerID(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	all, _ := f.GetByOwnerID(ctx, ownerID)
	out := slices.DeleteFunc(all, func(e *model.Event) bool { return !e.IsActive })
	slices.SortFunc(out, func(a, b *model.Event) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

type fakeSources struct {
	byOwner map[int64][]*model.CalendarSource
}

func newFakeSources() *fakeSources {
	return &fakeSources{byOwner: map[int64][]*model.CalendarSource{}}
}

func (f *fakeSources) Create(_ context.Context, src *model.CalendarSource) error {
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	f.byOwner[src.OwnerID] = append(f.byOwner[src.OwnerID], src)
	return nil
}

func (f *fakeSources) Delete(_ context.Context, id uuid.UUID, ownerID int64) error {
	f.byOwner[ownerID] = slices.DeleteFunc(f.byOwner[ownerID], func(s *model.CalendarSource) bool { return s.ID == id })
	return nil
}

func (f *fakeSources) GetActiveByOwnerID(_ context.Context, ownerID int64) ([]*model.CalendarSource, error) {
	return f.byOwner[ownerID], nil
}

func (f *fakeSources) GetOwnersWithSources(context.Context) ([]int64, error) {
	var out []int64
	for id, list := range f.byOwner {
		if len(list) > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out, nil
}

// stubBuilder maps stored source URLs to prepared live sources.
type stubBuilder struct {
	mu    sync.Mutex
	live  map[string]calendar.Source
	built int
}

func (b *stubBuilder) Build(src *model.CalendarSource, _ *time.Location) (calendar.Source, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.built++
	s, ok := b.live[src.URL]
	if !ok {
		return nil, errors.New("no such source")
	}
	return s, nil
}
