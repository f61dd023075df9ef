package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

type voteFixture struct {
	votes         VoteService
	notifications *memNotificationRepo
	post          *domain.Post
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()
	ctx := context.Background()
	posts := newMemPostRepo()
	notifications := newMemNotificationRepo()
	bus := &memBus{}

	post := &domain.Post{
		AuthorID:  "author",
		Prompts:   []string{"too formal?", "wear again?"},
		Discovery: true,
		Published: time.Now().Unix(),
	}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	svc := NewVoteService(newMemVoteRepo(), posts, NewNotificationService(notifications, bus))
	return &voteFixture{votes: svc, notifications: notifications, post: post}
}

func castReq(v interface{}) *domain.CastVoteRequest {
	raw, _ := json.Marshal(v)
	return &domain.CastVoteRequest{Response: raw}
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	vote, err := f.votes.Cast(ctx, f.post.ID, 0, "voter", castReq(true))
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if !vote.Response || vote.PromptIndex != 0 || vote.VoterID != "voter" {
		t.Fatalf("unexpected vote: %+v", vote)
	}

	// The author gets a vote notification.
	ns, err := f.notifications.ListAndMarkSeen(ctx, "author")
	if err != nil {
		t.Fatalf("ListAndMarkSeen: %v", err)
	}
	if len(ns) != 1 || ns[0].Type != domain.NotificationVote || ns[0].Source != "voter" {
		t.Fatalf("notifications = %+v, want one vote notification from voter", ns)
	}
}

func TestCastVoteRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		index   int
		voter   string
		body    interface{}
		prepare func(f *voteFixture)
		wantErr error
	}{
		{name: "non-boolean response", index: 0, voter: "voter", body: "yes", wantErr: ErrBadResponse},
		{name: "null response", index: 0, voter: "voter", body: nil, wantErr: ErrBadResponse},
		{name: "own post", index: 0, voter: "author", body: true, wantErr: ErrOwnPost},
		{name: "prompt out of range", index: 5, voter: "voter", body: true, wantErr: ErrPromptNotFound},
		{
			name: "duplicate", index: 1, voter: "voter", body: false, wantErr: ErrAlreadyVoted,
			prepare: func(f *voteFixture) {
				if _, err := f.votes.Cast(ctx, f.post.ID, 1, "voter", castReq(true)); err != nil {
					t.Fatalf("prepare cast: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVoteFixture(t)
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.votes.Cast(ctx, f.post.ID, tt.index, tt.voter, castReq(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanVoteAgreesWithCast(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	// Author can never vote, reason reported as own.
	own, err := f.votes.CanVote(ctx, f.post.ID, 0, "author")
	if err != nil {
		t.Fatalf("CanVote(author): %v", err)
	}
	if own.Can || !own.Own {
		t.Fatalf("author eligibility = %+v, want can=false own=true", own)
	}

	// Fresh voter can, and Cast succeeds.
	before, err := f.votes.CanVote(ctx, f.post.ID, 0, "voter")
	if err != nil {
		t.Fatalf("CanVote(before): %v", err)
	}
	if !before.Can {
		t.Fatalf("fresh voter eligibility = %+v, want can=true", before)
	}
	if _, err := f.votes.Cast(ctx, f.post.ID, 0, "voter", castReq(true)); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	// After voting the predicate flips and Cast agrees.
	after, err := f.votes.CanVote(ctx, f.post.ID, 0, "voter")
	if err != nil {
		t.Fatalf("CanVote(after): %v", err)
	}
	if after.Can || after.Own {
		t.Fatalf("voted eligibility = %+v, want can=false own=false", after)
	}
	if _, err := f.votes.Cast(ctx, f.post.ID, 0, "voter", castReq(true)); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("repeat Cast: err = %v, want ErrAlreadyVoted", err)
	}
}

func TestVoteResultsTally(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	for i, response := range []bool{true, true, false} {
		voter := string(rune('a' + i))
		if _, err := f.votes.Cast(ctx, f.post.ID, 1, voter, castReq(response)); err != nil {
			t.Fatalf("Cast %d: %v", i, err)
		}
	}

	results, err := f.votes.Results(ctx, f.post.ID, 1)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if results.VoteYes != 2 || results.VoteNo != 1 {
		t.Fatalf("tally = %d yes / %d no, want 2/1", results.VoteYes, results.VoteNo)
	}
	if len(results.Results) != 3 || results.Requested != 1 {
		t.Fatalf("results = %+v", results)
	}
}

func TestVoteOnMissingPost(t *testing.T) {
	ctx := context.Background()
	f := newVoteFixture(t)

	if _, err := f.votes.Cast(ctx, "missing", 0, "voter", castReq(true)); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("Cast: err = %v, want ErrPostNotFound", err)
	}
	if _, err := f.votes.CanVote(ctx, "missing", 0, "voter"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("CanVote: err = %v, want ErrPostNotFound", err)
	}
	if _, err := f.votes.Results(ctx, "missing", 0); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("Results: err = %v, want ErrPostNotFound", err)
	}
}
