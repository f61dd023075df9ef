package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreybutenko/formalwear-server/internal/domain"
	"github.com/andreybutenko/formalwear-server/internal/repository"
	"github.com/andreybutenko/formalwear-server/pkg/database"
	"github.com/andreybutenko/formalwear-server/pkg/pubsub"
)

// In-memory fakes mirroring the repository contracts, including sentinel
// errors and uniqueness behavior, so services can be tested without a
// database.

type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	follows *memFollowRepo
}

func newMemUserRepo(follows *memFollowRepo) *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}, follows: follows}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if user.Email != "" && u.Email == user.Email {
			return repository.ErrEmailExists
		}
		if user.FbUserID != "" && u.FbUserID == user.FbUserID {
			return repository.ErrFbUserExists
		}
	}
	user.ID = uuid.New().String()
	if user.ImageURL == "" {
		user.ImageURL = domain.DefaultImageURL
	}
	user.Following = []string{}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) get(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) withFollowing(ctx context.Context, u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		return nil, err
	}
	if r.follows != nil {
		following, err := r.follows.FollowingIDs(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		u.Following = following
	}
	return u, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.get(func(u *domain.User) bool { return u.ID == id })
	return r.withFollowing(ctx, u, err)
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.get(func(u *domain.User) bool { return u.Email == email })
	return r.withFollowing(ctx, u, err)
}

func (r *memUserRepo) GetByFbUserID(ctx context.Context, fbUserID string) (*domain.User, error) {
	u, err := r.get(func(u *domain.User) bool { return u.FbUserID != "" && u.FbUserID == fbUserID })
	return r.withFollowing(ctx, u, err)
}

func (r *memUserRepo) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	u, err := r.get(func(u *domain.User) bool { return u.Token != "" && u.Token == token })
	return r.withFollowing(ctx, u, err)
}

func (r *memUserRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	for k, v := range fields {
		switch k {
		case "token":
			u.Token = v.(string)
		case "email":
			u.Email = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "description":
			u.Description = v.(string)
		case "school":
			u.School = v.(string)
		case "clubs":
			u.Clubs = []string(v.(database.StringArray))
		case "setup":
			u.Setup = v.(bool)
		case "image_url":
			u.ImageURL = v.(string)
		case "fb_access_token":
			u.FbAccessToken = v.(string)
		case "fb_token_expiry":
			u.FbTokenExpiry = v.(int64)
		default:
			return fmt.Errorf("unexpected field %q", k)
		}
	}
	return nil
}

type memFollowRepo struct {
	mu    sync.Mutex
	edges map[string]map[string]int // follower -> following -> order
	next  int
}

func newMemFollowRepo() *memFollowRepo {
	return &memFollowRepo{edges: map[string]map[string]int{}}
}

func (r *memFollowRepo) Follow(ctx context.Context, followerID, followingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.edges[followerID] == nil {
		r.edges[followerID] = map[string]int{}
	}
	if _, ok := r.edges[followerID][followingID]; ok {
		return repository.ErrAlreadyFollowing
	}
	r.next++
	r.edges[followerID][followingID] = r.next
	return nil
}

func (r *memFollowRepo) Unfollow(ctx context.Context, followerID, followingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.edges[followerID][followingID]; !ok {
		return repository.ErrFollowNotFound
	}
	delete(r.edges[followerID], followingID)
	return nil
}

func (r *memFollowRepo) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[followerID][followingID]
	return ok, nil
}

func (r *memFollowRepo) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	type edge struct {
		id    string
		order int
	}
	edges := make([]edge, 0, len(r.edges[followerID]))
	for id, order := range r.edges[followerID] {
		edges = append(edges, edge{id, order})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].order < edges[j].order })
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.id)
	}
	return ids, nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]*domain.Post{}}
}

func (r *memPostRepo) Create(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = uuid.New().String()
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memPostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) list(filter func(*domain.Post) bool, limit, offset int) []domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Post, 0)
	for _, p := range r.posts {
		if filter(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Published > out[j].Published })
	if offset > 0 {
		if offset >= len(out) {
			return []domain.Post{}
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r *memPostRepo) ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]domain.Post, error) {
	set := map[string]struct{}{}
	for _, id := range authorIDs {
		set[id] = struct{}{}
	}
	return r.list(func(p *domain.Post) bool {
		_, ok := set[p.AuthorID]
		return ok
	}, limit, offset), nil
}

func (r *memPostRepo) ListDiscoverable(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	return r.list(func(p *domain.Post) bool { return p.Discovery }, limit, offset), nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*domain.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[string]*domain.Comment{}}
}

func (r *memCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = uuid.New().String()
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memCommentRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Comment, 0)
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Published < out[j].Published })
	return out, nil
}

func (r *memCommentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

type memVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*domain.Vote
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{votes: map[string]*domain.Vote{}}
}

func voteKey(postID string, promptIndex int, voterID string) string {
	return fmt.Sprintf("%s/%d/%s", postID, promptIndex, voterID)
}

func (r *memVoteRepo) Create(ctx context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey(vote.PostID, vote.PromptIndex, vote.VoterID)
	if _, ok := r.votes[key]; ok {
		return repository.ErrDuplicateVote
	}
	vote.ID = uuid.New().String()
	clone := *vote
	r.votes[key] = &clone
	return nil
}

func (r *memVoteRepo) Get(ctx context.Context, postID string, promptIndex int, voterID string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[voteKey(postID, promptIndex, voterID)]
	if !ok {
		return nil, repository.ErrVoteNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *memVoteRepo) ListByPrompt(ctx context.Context, postID string, promptIndex int) ([]domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Vote, 0)
	for _, v := range r.votes {
		if v.PostID == postID && v.PromptIndex == promptIndex {
			out = append(out, *v)
		}
	}
	return out, nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.New().String()
	clone := *n
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *memNotificationRepo) ListAndMarkSeen(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, 0)
	for _, n := range r.notifications {
		if n.Recipient == recipientID {
			out = append(out, *n)
			n.Seen = true
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	return out, nil
}

type memSearchRepo struct {
	mu      sync.Mutex
	users   map[string]domain.User
	posts   map[string]domain.Post
	removed []string
}

func newMemSearchRepo() *memSearchRepo {
	return &memSearchRepo{users: map[string]domain.User{}, posts: map[string]domain.Post{}}
}

func (r *memSearchRepo) SearchUsers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0)
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memSearchRepo) SearchPosts(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Post, 0)
	for _, p := range r.posts {
		if p.Discovery && strings.Contains(strings.ToLower(p.Description), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memSearchRepo) IndexUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memSearchRepo) IndexPost(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = *post
	return nil
}

func (r *memSearchRepo) RemovePost(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, postID)
	r.removed = append(r.removed, postID)
	return nil
}

// memStorage keeps written blobs in memory.
type memStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (s *memStorage) Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

func (s *memStorage) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no such key %q", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *memStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *memStorage) GetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "/images/" + key, nil
}

// memBus records published events and forwards them to any live
// subscription on the same channel name.
type memBus struct {
	mu     sync.Mutex
	events []*pubsub.Event
	subs   map[string]chan *pubsub.Event
}

func (b *memBus) Publish(ctx context.Context, channel string, event *pubsub.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	if ch, ok := b.subs[channel]; ok {
		ch <- event
	}
	return nil
}

func (b *memBus) Subscribe(ctx context.Context, channel string) (<-chan *pubsub.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[string]chan *pubsub.Event)
	}
	ch := make(chan *pubsub.Event, 16)
	b.subs[channel] = ch
	return ch, nil
}

func (b *memBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[channel]; ok {
		delete(b.subs, channel)
		close(ch)
	}
	return nil
}

func (b *memBus) Close() error { return nil }

var _ pubsub.PubSub = (*memBus)(nil)

// fakeVerifier accepts a single credential pair.
type fakeVerifier struct {
	profile FacebookProfile
	err     error
}

func (v *fakeVerifier) VerifyCredentials(ctx context.Context, fbUserID, accessToken string) (*FacebookProfile, error) {
	if v.err != nil {
		return nil, v.err
	}
	if fbUserID != v.profile.ID {
		return nil, ErrInvalidCredentials
	}
	p := v.profile
	return &p, nil
}
