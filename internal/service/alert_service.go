package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/cinema-seat-alert/internal/mailer"
	"github.com/iliyamo/cinema-seat-alert/internal/model"
	q "github.com/iliyamo/cinema-seat-alert/internal/queue"
	"github.com/iliyamo/cinema-seat-alert/internal/repository"
)

// NotificationStore is the part of the notification repository the alert
// service needs.
type NotificationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.SeatNotification, error)
	MarkNotified(ctx context.Context, id uint64, at time.Time) error
}

// MailSender delivers rendered messages.
type MailSender interface {
	Send(ctx context.Context, m mailer.Message) error
}

// AlertService turns seat.available events into e-mails.
type AlertService struct {
	Store NotificationStore
	Mail  MailSender
	Links mailer.Links
	Now   func() time.Time
}

// NewAlertService wires an AlertService.
func NewAlertService(store NotificationStore, mail MailSender, links mailer.Links) *AlertService {
	return &AlertService{Store: store, Mail: mail, Links: links, Now: time.Now}
}

// Handle sends the alert described by ev and records it.  Events for
// notifications that were removed in the meantime, or that were already
// answered after the seat was detected, are dropped without error.
func (s *AlertService) Handle(ctx context.Context, ev q.SeatAvailableEvent) error {
	n, err := s.Store.GetByID(ctx, ev.NotificationID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("alerts: notification %d is gone, skipping", ev.NotificationID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load notification %d: %w", ev.NotificationID, err)
	}
	if n.Email != ev.Email || n.SeatNumber != ev.SeatNumber {
		log.Printf("alerts: notification %d no longer matches event, skipping", ev.NotificationID)
		return nil
	}
	if detected, err := time.Parse(time.RFC3339, ev.DetectedAt); err == nil && n.LastNotified != nil && !n.LastNotified.Before(detected) {
		log.Printf("alerts: notification %d already sent at %s, skipping", n.ID, n.LastNotified.UTC().Format(time.RFC3339))
		return nil
	}

	msg, err := s.Links.Compose(ev)
	if err != nil {
		return fmt.Errorf("compose alert: %w", err)
	}
	if err := s.Mail.Send(ctx, msg); err != nil {
		return err
	}
	if err := s.Store.MarkNotified(ctx, n.ID, s.Now()); err != nil {
		// The mail is out; a failed mark only means an early reminder.
		log.Printf("alerts: mark notification %d: %v", n.ID, err)
	}
	return nil
}
