package service

import (
	"context"
	"time"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/log"
	"github.com/andreybutenko/formalwear-server/pkg/pubsub"
)

// notificationServiceImpl implements NotificationService.
type notificationServiceImpl struct {
	notifications repository.NotificationRepository
	bus           pubsub.PubSub
}

// NewNotificationService creates a new notification service.
func NewNotificationService(
	notifications repository.NotificationRepository,
	bus pubsub.PubSub,
) NotificationService {
	return &notificationServiceImpl{
		notifications: notifications,
		bus:           bus,
	}
}

// Notify writes the notification row and publishes an event for push
// delivery. The row write propagates its error to the triggering request;
// the publish never does.
func (s *notificationServiceImpl) Notify(ctx context.Context, recipientID, sourceID, postID, kind string) error {
	l := log.Ctx(ctx)

	// Acting on your own post notifies nobody.
	if recipientID == sourceID {
		return nil
	}

	n := &domain.Notification{
		Location:  postID,
		Source:    sourceID,
		Recipient: recipientID,
		Type:      kind,
		Time:      time.Now().Unix(),
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		l.Error().Err(err).
			Str(log.FieldPostID, postID).
			Str(log.FieldTargetID, recipientID).
			Msg("failed to create notification")
		return err
	}

	s.publish(ctx, n)
	return nil
}

// List returns the recipient's notifications newest first, marking every
// one seen in the same transaction.
func (s *notificationServiceImpl) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	notifications, err := s.notifications.ListAndMarkSeen(ctx, recipientID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, recipientID).Msg("failed to list notifications")
		return nil, err
	}
	return notifications, nil
}

// Stream subscribes to the recipient's notification events for live push
// on top of List. The subscription ends when ctx is cancelled.
func (s *notificationServiceImpl) Stream(ctx context.Context, recipientID string) (<-chan *pubsub.Event, error) {
	channel := pubsub.NotificationChannel(recipientID)

	events, err := s.bus.Subscribe(ctx, channel)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, recipientID).Msg("failed to subscribe to notifications")
		return nil, err
	}

	go func() {
		<-ctx.Done()
		if err := s.bus.Unsubscribe(context.Background(), channel); err != nil {
			log.L().Warn().Err(err).Str(log.FieldUserID, recipientID).Msg("failed to unsubscribe from notifications")
		}
	}()

	return events, nil
}

func (s *notificationServiceImpl) publish(ctx context.Context, n *domain.Notification) {
	l := log.Ctx(ctx)

	eventType := pubsub.EventCommentCreated
	if n.Type == domain.NotificationVote {
		eventType = pubsub.EventVoteCast
	}

	event, err := pubsub.NewEvent(eventType, n.Recipient, pubsub.NotificationPayload{
		NotificationID: n.ID,
		PostID:         n.Location,
		SourceID:       n.Source,
		Type:           n.Type,
		Time:           n.Time,
	})
	if err != nil {
		l.Warn().Err(err).Msg("failed to build notification event")
		return
	}

	if err := s.bus.Publish(ctx, pubsub.NotificationChannel(n.Recipient), event); err != nil {
		l.Warn().Err(err).Str(log.FieldTargetID, n.Recipient).Msg("failed to publish notification event")
	}
}
