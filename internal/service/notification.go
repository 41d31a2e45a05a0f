package service

import (
	"context"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
)

// NotificationService wraps the notification endpoints. Every lookup is
// decoration for the header dropdown, so failures degrade to empty results
// rather than erroring.
type NotificationService struct {
	gateway client.Gateway
}

func NewNotificationService(gateway client.Gateway) *NotificationService {
	return &NotificationService{gateway: gateway}
}

func (s *NotificationService) List(ctx context.Context, sess *session.Session) []model.Notification {
	user, err := sess.User(ctx)
	if err != nil {
		return nil
	}
	ns, err := s.gateway.Notifications(ctx, sess.Token(ctx), user.ID)
	if err != nil {
		return nil
	}
	return ns
}

func (s *NotificationService) Unread(ctx context.Context, sess *session.Session) []model.Notification {
	user, err := sess.User(ctx)
	if err != nil {
		return nil
	}
	ns, err := s.gateway.UnreadNotifications(ctx, sess.Token(ctx), user.ID)
	if err != nil {
		return nil
	}
	return ns
}

func (s *NotificationService) UnreadCount(ctx context.Context, sess *session.Session) int {
	user, err := sess.User(ctx)
	if err != nil {
		return 0
	}
	count, err := s.gateway.UnreadNotificationCount(ctx, sess.Token(ctx), user.ID)
	if err != nil {
		return 0
	}
	return count
}

func (s *NotificationService) MarkRead(ctx context.Context, sess *session.Session, notificationID string) bool {
	return s.gateway.MarkNotificationRead(ctx, sess.Token(ctx), notificationID) == nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, sess *session.Session) bool {
	user, err := sess.User(ctx)
	if err != nil {
		return false
	}
	return s.gateway.MarkAllNotificationsRead(ctx, sess.Token(ctx), user.ID) == nil
}
