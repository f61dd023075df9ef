package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andreybutenko/formalwear-server/internal/domain"
)

type feedFixture struct {
	feed    FeedService
	posts   *memPostRepo
	follows *memFollowRepo
	users   *memUserRepo
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	follows := newMemFollowRepo()
	users := newMemUserRepo(follows)
	posts := newMemPostRepo()
	return &feedFixture{
		feed:    NewFeedService(posts, follows, users),
		posts:   posts,
		follows: follows,
		users:   users,
	}
}

func (f *feedFixture) seedPost(t *testing.T, author string, published int64, discovery bool) *domain.Post {
	t.Helper()
	p := &domain.Post{AuthorID: author, Published: published, Discovery: discovery}
	if err := f.posts.Create(context.Background(), p); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

func TestHomeFeed(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture(t)

	if err := f.follows.Follow(ctx, "alice", "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	f.seedPost(t, "alice", 100, true)
	f.seedPost(t, "bob", 200, false)
	f.seedPost(t, "carol", 300, true) // not followed, must not appear

	posts, err := f.feed.Home(ctx, "alice", 0, 0)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("home feed has %d posts, want 2", len(posts))
	}
	// Newest first, and bob's non-discoverable post still shows for a follower.
	if posts[0].AuthorID != "bob" || posts[1].AuthorID != "alice" {
		t.Fatalf("feed order = [%s %s], want [bob alice]", posts[0].AuthorID, posts[1].AuthorID)
	}
}

func TestExploreFiltersByDiscovery(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture(t)

	f.seedPost(t, "alice", 100, true)
	hidden := f.seedPost(t, "bob", 200, false)
	f.seedPost(t, "carol", 300, true)

	posts, err := f.feed.Explore(ctx, 0, 0)
	if err != nil {
		t.Fatalf("Explore: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("explore has %d posts, want 2", len(posts))
	}
	for _, p := range posts {
		if p.ID == hidden.ID {
			t.Fatal("non-discoverable post leaked into explore")
		}
	}
	if posts[0].Published < posts[1].Published {
		t.Fatal("explore not sorted newest first")
	}
}

func TestUserFeed(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture(t)
	bob := seedUser(t, f.users, "bob")

	f.seedPost(t, bob.ID, 100, true)
	f.seedPost(t, bob.ID, 200, false)
	f.seedPost(t, "other", 300, true)

	posts, err := f.feed.User(ctx, bob.ID, 0, 0)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("user feed has %d posts, want 2", len(posts))
	}

	if _, err := f.feed.User(ctx, "missing", 0, 0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing author: err = %v, want ErrUserNotFound", err)
	}
}

func TestHomeFeedPagination(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture(t)

	for i := int64(1); i <= 5; i++ {
		f.seedPost(t, "alice", i*10, true)
	}

	page, err := f.feed.Home(ctx, "alice", 2, 1)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page has %d posts, want 2", len(page))
	}
	if page[0].Published != 40 || page[1].Published != 30 {
		t.Fatalf("page = [%d %d], want [40 30]", page[0].Published, page[1].Published)
	}
}
