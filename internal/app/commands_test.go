package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/adityar/eventpin/internal/event"
	"github.com/adityar/eventpin/internal/store"
)

// fakeStore is an in-memory CommandStore keeping insertion order.
type fakeStore struct {
	order         []string
	events        map[string]*event.Event
	registrations []*event.Registration
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[string]*event.Event)}
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("id-%03d", f.nextID)
}

func (f *fakeStore) PushEvent(ctx context.Context, e *event.Event) (string, error) {
	e.ID = f.genID()
	cp := *e
	f.events[e.ID] = &cp
	f.order = append(f.order, e.ID)
	return e.ID, nil
}

func (f *fakeStore) SetEvent(ctx context.Context, e *event.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.events, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) UpdateFavorite(ctx context.Context, id string, favorite bool) error {
	e, ok := f.events[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Favorite = favorite
	return nil
}

func (f *fakeStore) UpdateRegistered(ctx context.Context, id string, at string) error {
	e, ok := f.events[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Registered = true
	e.LastUpdated = at
	return nil
}

func (f *fakeStore) PushRegistration(ctx context.Context, r *event.Registration) (string, error) {
	r.ID = f.genID()
	cp := *r
	f.registrations = append(f.registrations, &cp)
	return r.ID, nil
}

func (f *fakeStore) Snapshot(ctx context.Context) ([]event.Event, error) {
	out := make([]event.Event, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.events[id])
	}
	return out, nil
}

// recordingHub captures every published snapshot.
type recordingHub struct {
	published [][]event.Event
}

func (h *recordingHub) Publish(events []event.Event) {
	h.published = append(h.published, events)
}

func newTestService(fs *fakeStore, hub *recordingHub) *CommandsService {
	return &CommandsService{
		Store: fs,
		Hub:   hub,
		Now:   func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func validForm() EventForm {
	return EventForm{
		Name:        "Batik Workshop",
		Coordinates: "-7.5,110.3",
		Category:    "Workshop",
		Date:        "2026-10-01",
		Time:        "14:00",
	}
}

func TestCreate_SetsInitialState(t *testing.T) {
	fs := newFakeStore()
	hub := &recordingHub{}
	svc := newTestService(fs, hub)

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if e.Favorite || e.Registered {
		t.Error("new event must start unfavorited and unregistered")
	}
	if e.Attendees == nil || len(e.Attendees) != 0 {
		t.Errorf("attendees = %#v, want empty non-nil", e.Attendees)
	}
	if e.CreatedAt != "2026-09-01T12:00:00Z" {
		t.Errorf("createdAt = %q", e.CreatedAt)
	}
	if len(hub.published) != 1 {
		t.Errorf("published %d snapshots, want 1", len(hub.published))
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc := newTestService(newFakeStore(), &recordingHub{})

	tests := []struct {
		name   string
		mutate func(*EventForm)
	}{
		{"name", func(f *EventForm) { f.Name = "  " }},
		{"category", func(f *EventForm) { f.Category = "" }},
		{"date", func(f *EventForm) { f.Date = "" }},
		{"time", func(f *EventForm) { f.Time = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			if _, err := svc.Create(context.Background(), form); !errors.Is(err, ErrValidation) {
				t.Errorf("missing %s: err = %v, want ErrValidation", tt.name, err)
			}
		})
	}
}

func TestEdit_FullOverwrite(t *testing.T) {
	fs := newFakeStore()
	hub := &recordingHub{}
	svc := newTestService(fs, hub)

	created, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := fs.UpdateFavorite(context.Background(), created.ID, true); err != nil {
		t.Fatal(err)
	}

	form := validForm()
	form.Detail = "bring your own canting"
	if _, err := svc.Edit(context.Background(), created.ID, form); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got, err := fs.GetEvent(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Detail != "bring your own canting" {
		t.Errorf("detail = %q", got.Detail)
	}
	if got.Favorite {
		t.Error("favorite must be reset by full overwrite")
	}
	if got.CreatedAt != "" {
		t.Errorf("createdAt should not survive overwrite, got %q", got.CreatedAt)
	}
}

func TestEdit_UnknownID(t *testing.T) {
	svc := newTestService(newFakeStore(), &recordingHub{})

	if _, err := svc.Edit(context.Background(), "missing", validForm()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleFavorite_RoundTrips(t *testing.T) {
	fs := newFakeStore()
	hub := &recordingHub{}
	svc := newTestService(fs, hub)

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatal(err)
	}

	on, err := svc.ToggleFavorite(context.Background(), e.ID)
	if err != nil || !on {
		t.Fatalf("first toggle: %v %v", on, err)
	}
	off, err := svc.ToggleFavorite(context.Background(), e.ID)
	if err != nil || off {
		t.Fatalf("second toggle: %v %v", off, err)
	}
}

func TestRegister_Direct(t *testing.T) {
	fs := newFakeStore()
	hub := &recordingHub{}
	svc := newTestService(fs, hub)

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Register(context.Background(), e.ID, RegisterRequest{
		FullName: "Alice",
		Phone:    "08123456789",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.RegistrationID == "" {
		t.Error("missing registration id")
	}
	if result.WhatsAppURL != "" {
		t.Errorf("direct method must not return a chat link, got %q", result.WhatsAppURL)
	}

	got, err := fs.GetEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Registered {
		t.Error("event not marked registered")
	}
	if got.LastUpdated == "" {
		t.Error("lastUpdated not set")
	}

	if len(fs.registrations) != 1 {
		t.Fatalf("registrations = %d, want 1", len(fs.registrations))
	}
	reg := fs.registrations[0]
	if reg.EventName != "Batik Workshop" || reg.Method != event.MethodDirect {
		t.Errorf("registration = %+v", reg)
	}
}

func TestRegister_WhatsAppLink(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs, &recordingHub{})
	svc.OrganizerWhatsApp = "+62 811-1111-111"

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Register(context.Background(), e.ID, RegisterRequest{
		FullName: "Alice",
		Phone:    "08123456789",
		Method:   event.MethodWhatsApp,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.HasPrefix(result.WhatsAppURL, "https://wa.me/628111111111?text=") {
		t.Errorf("whatsapp url = %q", result.WhatsAppURL)
	}
}

func TestRegister_WhatsAppUnconfigured(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs, &recordingHub{})

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Register(context.Background(), e.ID, RegisterRequest{
		FullName: "Alice",
		Phone:    "08123456789",
		Method:   event.MethodWhatsApp,
	})
	if !errors.Is(err, ErrWhatsAppUnavailable) {
		t.Errorf("err = %v, want ErrWhatsAppUnavailable", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs, &recordingHub{})

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"blank name", RegisterRequest{FullName: "   ", Phone: "08123456789"}},
		{"short phone", RegisterRequest{FullName: "Alice", Phone: "12345"}},
		{"bad method", RegisterRequest{FullName: "Alice", Phone: "08123456789", Method: "pigeon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), e.ID, tt.req); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// Validation failures must not leave partial state behind.
	got, err := fs.GetEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Registered {
		t.Error("failed registration mutated the event")
	}
}

func TestDelete_Publishes(t *testing.T) {
	fs := newFakeStore()
	hub := &recordingHub{}
	svc := newTestService(fs, hub)

	e, err := svc.Create(context.Background(), validForm())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	last := hub.published[len(hub.published)-1]
	if len(last) != 0 {
		t.Errorf("last snapshot has %d events, want 0", len(last))
	}
}

func TestStats_OverSnapshot(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs, &recordingHub{})

	for i := 0; i < 5; i++ {
		form := validForm()
		form.Name = "event " + strconv.Itoa(i)
		e, err := svc.Create(context.Background(), form)
		if err != nil {
			t.Fatal(err)
		}
		if i < 2 {
			if _, err := svc.ToggleFavorite(context.Background(), e.ID); err != nil {
				t.Fatal(err)
			}
		}
	}

	stats := NewStatsService(fs)
	result, err := stats.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if result.Favorite != 2 {
		t.Errorf("favorite = %d, want 2", result.Favorite)
	}
	if len(result.TopFavorites) != 2 {
		t.Errorf("topFavorites = %d, want 2", len(result.TopFavorites))
	}
}
