package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adityar/eventpin/internal/event"
	"github.com/adityar/eventpin/internal/register"
)

// ErrValidation marks user-input errors. Handlers map it to 400.
var ErrValidation = errors.New("invalid input")

// ErrWhatsAppUnavailable is returned for whatsapp-method registrations when
// no organizer number is configured.
var ErrWhatsAppUnavailable = errors.New("whatsapp registration not configured")

// minPhoneDigits is the minimum accepted phone number length after trimming.
const minPhoneDigits = 10

// CommandStore defines store operations needed by CommandsService.
type CommandStore interface {
	PushEvent(ctx context.Context, e *event.Event) (string, error)
	SetEvent(ctx context.Context, e *event.Event) error
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	UpdateFavorite(ctx context.Context, id string, favorite bool) error
	UpdateRegistered(ctx context.Context, id string, at string) error
	PushRegistration(ctx context.Context, r *event.Registration) (string, error)
	Snapshot(ctx context.Context) ([]event.Event, error)
}

// SnapshotPublisher receives the full collection after every mutation.
type SnapshotPublisher interface {
	Publish(events []event.Event)
}

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendMessage(ctx context.Context, phone, text string) error
}

// CommandsUsecase defines the mutation commands.
type CommandsUsecase interface {
	Create(ctx context.Context, form EventForm) (*event.Event, error)
	Edit(ctx context.Context, id string, form EventForm) (*event.Event, error)
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Register(ctx context.Context, id string, req RegisterRequest) (*RegisterResult, error)
}

// EventForm carries the client-editable fields of an event. Both create and
// edit take the whole form; edit writes it as a full overwrite, so anything
// the form leaves blank ends up blank on the record.
type EventForm struct {
	Name        string `json:"name"`
	Coordinates string `json:"coordinates"`
	Accuracy    string `json:"accuracy"`
	Category    string `json:"category"`
	Detail      string `json:"detail"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Price       string `json:"price"`
	IsFree      bool   `json:"isFree"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
}

// RegisterRequest carries one attendee's registration form.
type RegisterRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Instagram string `json:"instagram"`
	Notes     string `json:"notes"`
	Method    string `json:"method"`
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	RegistrationID string `json:"registrationId"`
	// WhatsAppURL is set for whatsapp-method registrations: a wa.me link
	// with the registration summary prefilled.
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}

// CommandsService implements CommandsUsecase. Every successful mutation
// republishes the full snapshot through Hub so streaming clients re-derive
// their views.
type CommandsService struct {
	Store CommandStore
	Hub   SnapshotPublisher

	// Sender is optional. When set, registration summaries are forwarded to
	// OrganizerWhatsApp best-effort (send failures are logged, never retried,
	// and never fail the registration).
	Sender            MessageSender
	OrganizerWhatsApp string

	Logger *slog.Logger
	Now    func() time.Time
}

func (s *CommandsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CommandsService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Create validates the form and pushes a new event with the fixed initial
// state: not favorited, not registered, empty attendee list.
func (s *CommandsService) Create(ctx context.Context, form EventForm) (*event.Event, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	e := form.toEvent()
	e.Favorite = false
	e.Registered = false
	e.Attendees = []string{}
	e.CreatedAt = s.now().UTC().Format(time.RFC3339)

	if _, err := s.Store.PushEvent(ctx, e); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return e, nil
}

// Edit overwrites the whole record with the submitted form. Fields the form
// does not carry (favorite, registered, attendees, createdAt) are reset; this
// matches the write-what-you-see contract of the edit screen.
func (s *CommandsService) Edit(ctx context.Context, id string, form EventForm) (*event.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	e := form.toEvent()
	e.ID = id
	if err := s.Store.SetEvent(ctx, e); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return e, nil
}

// Delete removes the event. Registrations recorded under the ID survive.
func (s *CommandsService) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.publishSnapshot(ctx)
	return nil
}

// ToggleFavorite reads the current flag and merges its negation back.
// Returns the new value.
func (s *CommandsService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	e, err := s.Store.GetEvent(ctx, id)
	if err != nil {
		return false, err
	}

	next := !e.Favorite
	if err := s.Store.UpdateFavorite(ctx, id, next); err != nil {
		return false, err
	}

	s.publishSnapshot(ctx)
	return next, nil
}

// Register marks the event registered, appends the registration record, and
// for the whatsapp method returns a prefilled organizer chat link.
func (s *CommandsService) Register(ctx context.Context, id string, req RegisterRequest) (*RegisterResult, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	phone := strings.TrimSpace(req.Phone)
	if len(phone) < minPhoneDigits {
		return nil, fmt.Errorf("%w: phone number must be at least %d characters", ErrValidation, minPhoneDigits)
	}

	method := req.Method
	if method == "" {
		method = event.MethodDirect
	}
	if method != event.MethodDirect && method != event.MethodWhatsApp {
		return nil, fmt.Errorf("%w: unknown method %q", ErrValidation, req.Method)
	}
	if method == event.MethodWhatsApp && s.OrganizerWhatsApp == "" {
		return nil, ErrWhatsAppUnavailable
	}

	e, err := s.Store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	if err := s.Store.UpdateRegistered(ctx, id, now); err != nil {
		return nil, err
	}

	reg := &event.Registration{
		EventID:      id,
		FullName:     fullName,
		Email:        strings.TrimSpace(req.Email),
		Phone:        phone,
		Instagram:    strings.TrimSpace(req.Instagram),
		Notes:        strings.TrimSpace(req.Notes),
		EventName:    e.Name,
		Method:       method,
		RegisteredAt: now,
	}
	regID, err := s.Store.PushRegistration(ctx, reg)
	if err != nil {
		return nil, err
	}

	summary := register.Summary(reg)
	result := &RegisterResult{RegistrationID: regID}
	if method == event.MethodWhatsApp {
		result.WhatsAppURL = register.WhatsAppLink(s.OrganizerWhatsApp, summary)
	}

	if s.Sender != nil && s.OrganizerWhatsApp != "" {
		go s.forwardSummary(s.OrganizerWhatsApp, summary)
	}

	s.publishSnapshot(ctx)
	return result, nil
}

// forwardSummary sends the registration summary to the organizer.
// Fire-and-forget: one attempt, errors only logged.
func (s *CommandsService) forwardSummary(phone, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Sender.SendMessage(ctx, phone, text); err != nil {
		s.logger().Warn("failed to forward registration summary", "error", err)
	}
}

// publishSnapshot fans the post-mutation collection out to stream clients.
// A snapshot read failure only costs this broadcast; the mutation itself has
// already committed.
func (s *CommandsService) publishSnapshot(ctx context.Context) {
	if s.Hub == nil {
		return
	}
	snap, err := s.Store.Snapshot(ctx)
	if err != nil {
		s.logger().Warn("snapshot after mutation failed", "error", err)
		return
	}
	s.Hub.Publish(snap)
}

func validateForm(form EventForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(form.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if strings.TrimSpace(form.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if strings.TrimSpace(form.Time) == "" {
		return fmt.Errorf("%w: time is required", ErrValidation)
	}
	return nil
}

func (f EventForm) toEvent() *event.Event {
	return &event.Event{
		Name:        f.Name,
		Coordinates: f.Coordinates,
		Accuracy:    f.Accuracy,
		Category:    f.Category,
		Detail:      f.Detail,
		Date:        f.Date,
		Time:        f.Time,
		Price:       f.Price,
		IsFree:      f.IsFree,
		Emoji:       f.Emoji,
		Color:       f.Color,
	}
}
