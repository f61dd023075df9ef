package domain

import "encoding/json"

// Vote is one user's boolean answer to one prompt on one post. At most one
// vote exists per (post, prompt index, voter), enforced by a store-level
// unique constraint.
type Vote struct {
	ID          string `json:"id"`
	PostID      string `json:"post_id"`
	PromptIndex int    `json:"prompt_index"`
	VoterID     string `json:"voter_id"`
	Response    bool   `json:"response"`
}

// CastVoteRequest carries the answer. Raw so a non-boolean value can be
// rejected explicitly instead of silently coerced.
type CastVoteRequest struct {
	Response json.RawMessage `json:"response" binding:"required"`
}

// Eligibility reports whether a user may vote on a prompt. Own is set when
// the reason they cannot vote is that they authored the post.
type Eligibility struct {
	Can       bool `json:"can"`
	Own       bool `json:"own,omitempty"`
	Requested int  `json:"requested"`
}

// VoteResults aggregates the responses for one prompt.
type VoteResults struct {
	Results   []Vote `json:"results"`
	Requested int    `json:"requested"`
	VoteYes   int    `json:"voteYes"`
	VoteNo    int    `json:"voteNo"`
}
