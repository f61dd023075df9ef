package domain

import "encoding/json"

// Comment represents a comment on a post. Deletable only by its commenter.
type Comment struct {
	ID          string `json:"id"`
	PostID      string `json:"post_id"`
	CommenterID string `json:"commenter_id"`
	Comment     string `json:"comment"`
	Published   int64  `json:"published"`
}

// CreateCommentRequest carries new comment text. Raw so non-string values
// can be sanitized to a plain string rather than rejected.
type CreateCommentRequest struct {
	Comment json.RawMessage `json:"comment" binding:"required"`
}
