package domain

// Notification types.
const (
	NotificationComment = "comment"
	NotificationVote    = "vote"
)

// Notification records that an interaction occurred on a user's post.
// Owned by its recipient for read/seen-state purposes.
type Notification struct {
	ID string `json:"id"`
	// Location is the post where the event occurred.
	Location string `json:"location"`
	// Source is the user who caused the event.
	Source string `json:"source"`
	// Recipient is the user who should see it.
	Recipient string `json:"recipient"`
	Type      string `json:"type"`
	Seen      bool   `json:"seen"`
	Time      int64  `json:"time"`
}
