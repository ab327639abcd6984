package service

import (
	"context"
	"log"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/mailer"
	"mobileopsconnect/internal/notify"
	"mobileopsconnect/internal/repository"

	"github.com/google/uuid"
)

type RegisterDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

type SendBroadcastRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// NotificationService fans out push notifications and email. Every
// delivery method is fire-and-forget: work is queued on the dispatcher and
// failures are logged, never returned to the workflow that triggered them.
type NotificationService interface {
	RegisterDevice(ctx context.Context, actor Actor, token string) error
	PushToUser(userID uuid.UUID, title, body string)
	PushToRoles(title, body string, roles ...string)
	PushToAll(title, body string)
	Email(to, subject, htmlBody string)
}

type notificationService struct {
	devices    repository.DeviceTokenRepository
	users      repository.UserRepository
	pusher     notify.Pusher
	mail       mailer.Sender
	dispatcher *notify.Dispatcher
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	devices repository.DeviceTokenRepository,
	users repository.UserRepository,
	pusher notify.Pusher,
	mail mailer.Sender,
	dispatcher *notify.Dispatcher,
) NotificationService {
	return &notificationService{
		devices:    devices,
		users:      users,
		pusher:     pusher,
		mail:       mail,
		dispatcher: dispatcher,
	}
}

// RegisterDevice stores (or refreshes) a push token for the actor's account.
func (s *notificationService) RegisterDevice(ctx context.Context, actor Actor, token string) error {
	if token == "" {
		return apperr.Validation("device token is required")
	}
	if err := s.devices.Upsert(ctx, actor.ID, token); err != nil {
		return apperr.Unavailable(err, "failed to register device token")
	}
	return nil
}

func (s *notificationService) PushToUser(userID uuid.UUID, title, body string) {
	s.dispatcher.Enqueue(func(ctx context.Context) {
		tokens, err := s.devices.TokensForUser(ctx, userID)
		if err != nil {
			log.Printf("notification: failed to load tokens for user %s: %v", userID, err)
			return
		}
		s.deliver(ctx, tokens, title, body)
	})
}

// PushToRoles notifies every user holding one of the given roles.
func (s *notificationService) PushToRoles(title, body string, roles ...string) {
	s.dispatcher.Enqueue(func(ctx context.Context) {
		users, err := s.users.ListByRoles(ctx, roles...)
		if err != nil {
			log.Printf("notification: failed to load users for roles %v: %v", roles, err)
			return
		}
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if len(ids) == 0 {
			return
		}
		tokens, err := s.devices.TokensForUsers(ctx, ids)
		if err != nil {
			log.Printf("notification: failed to load tokens for roles %v: %v", roles, err)
			return
		}
		s.deliver(ctx, tokens, title, body)
	})
}

func (s *notificationService) PushToAll(title, body string) {
	s.dispatcher.Enqueue(func(ctx context.Context) {
		tokens, err := s.devices.AllTokens(ctx)
		if err != nil {
			log.Printf("notification: failed to load device tokens: %v", err)
			return
		}
		s.deliver(ctx, tokens, title, body)
	})
}

func (s *notificationService) Email(to, subject, htmlBody string) {
	s.dispatcher.Enqueue(func(ctx context.Context) {
		if err := s.mail.Send(to, subject, htmlBody); err != nil {
			log.Printf("notification: %v", err)
		}
	})
}

// deliver pushes to the given tokens and cleans up whatever the provider
// reports as stale.
func (s *notificationService) deliver(ctx context.Context, tokens []string, title, body string) {
	if len(tokens) == 0 {
		log.Printf("notification: no registered devices for %q", title)
		return
	}

	sent, stale, err := s.pusher.Push(ctx, tokens, title, body)
	if err != nil {
		log.Printf("notification: push %q failed: %v", title, err)
		return
	}

	if len(stale) > 0 {
		if err := s.devices.DeleteTokens(ctx, stale); err != nil {
			log.Printf("notification: failed to remove %d stale tokens: %v", len(stale), err)
		} else {
			log.Printf("notification: removed %d stale device tokens", len(stale))
		}
	}

	log.Printf("notification: %q delivered to %d/%d devices", title, sent, len(tokens))
}
