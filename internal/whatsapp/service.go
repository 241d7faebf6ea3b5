// Package whatsapp delivers registration summaries to the organizer over a
// linked WhatsApp session.
package whatsapp

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

// Config holds the WhatsApp service configuration.
type Config struct {
	// DBPath is where the session state database lives.
	DBPath string
}

// Service wraps a whatsmeow client behind a plain SendMessage API.
type Service struct {
	client *whatsmeow.Client
	log    zerolog.Logger
}

// NewService creates a new WhatsApp service backed by a SQLite session store.
func NewService(cfg *Config) (*Service, error) {
	ctx := context.Background()
	logger := zerolog.New(os.Stdout).With().Str("component", "whatsapp").Logger()

	// Nil logger: sqlstore falls back to a no-op logger.
	container, err := sqlstore.New(ctx, "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", cfg.DBPath), nil)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		log:    logger,
	}

	client.AddEventHandler(service.eventHandler)

	return service, nil
}

// NormalizePhoneNumber normalizes phone numbers to international format.
// Local Indonesian numbers starting with 0 are converted to the 62 country
// code: 08XXXXXXXXX -> 628XXXXXXXXX.
func NormalizePhoneNumber(phoneNumber string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if strings.HasPrefix(phoneNumber, "0") {
		phoneNumber = "62" + phoneNumber[1:]
	}

	// Already has the country code but kept the trunk 0.
	if strings.HasPrefix(phoneNumber, "620") {
		phoneNumber = "62" + phoneNumber[3:]
	}

	return phoneNumber
}

// Connect connects to WhatsApp. On first run (no stored session) it prints a
// QR code to the terminal and blocks until the phone links the device.
func (s *Service) Connect() error {
	if s.client.Store.ID == nil {
		qrChan, _ := s.client.GetQRChannel(context.Background())
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		for evt := range qrChan {
			if evt.Event == "code" {
				q, err := qrcode.New(evt.Code, qrcode.Medium)
				if err != nil {
					fmt.Printf("QR code: %s\n", evt.Code)
				} else {
					fmt.Println("\n" + q.ToSmallString(false))
				}
				fmt.Println("Scan the QR code with WhatsApp (Settings > Linked Devices > Link a Device).")
			} else {
				s.log.Info().Str("event", evt.Event).Msg("login event")
			}
		}
		return nil
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

// Disconnect disconnects from WhatsApp.
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SendMessage sends a text message to a phone number. The number is verified
// to be on WhatsApp first; the verified JID is used for delivery.
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber)

	resp, err := s.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return fmt.Errorf("verify number: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	s.log.Debug().Str("jid", jid.String()).Msg("sending message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("send message to %s: %w", jid.String(), err)
	}

	s.log.Info().Str("id", sent.ID).Time("timestamp", sent.Timestamp).Msg("message sent")
	return nil
}

// eventHandler handles connection lifecycle events. Inbound messages are
// logged and otherwise ignored; this service only sends.
func (s *Service) eventHandler(evt interface{}) {
	switch evt := evt.(type) {
	case *events.Message:
		if evt.Info.IsFromMe {
			return
		}
		s.log.Info().
			Str("sender", evt.Info.Sender.String()).
			Msg("ignoring inbound message")
	case *events.Connected:
		s.log.Info().Msg("connected")
	case *events.Disconnected:
		s.log.Info().Msg("disconnected")
	case *events.LoggedOut:
		s.log.Warn().Msg("logged out, relink required")
	}
}
