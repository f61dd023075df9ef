package pubsub

import "fmt"

// Channel naming conventions for interaction events.
const (
	// Per-recipient notification channel.
	ChannelNotifications = "notifications:user:%s"
)

// Interaction event types.
const (
	EventCommentCreated = "comment_created"
	EventVoteCast       = "vote_cast"
)

// NotificationChannel returns the channel name for a recipient's
// notification events.
func NotificationChannel(userID string) string {
	return fmt.Sprintf(ChannelNotifications, userID)
}

// NotificationPayload is published when a comment or vote lands on a
// user's post. Delivery is best-effort; the notification row in the
// database is the durable record.
type NotificationPayload struct {
	NotificationID string `json:"notification_id"`
	PostID         string `json:"post_id"`
	SourceID       string `json:"source_id"`
	Type           string `json:"type"` // "comment" or "vote"
	Time           int64  `json:"time"`
}
