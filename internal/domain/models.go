package domain

import (
	"time"

	"github.com/andreybutenko/formalwear-server/pkg/database"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	FirstName   string `gorm:"type:varchar(100)"`
	LastName    string `gorm:"type:varchar(100)"`
	ImageURL    string `gorm:"type:varchar(512)"`
	Description string `gorm:"type:text"`
	School      string `gorm:"type:varchar(255)"`
	Clubs       database.StringArray `gorm:"type:text"`

	// Pointers so accounts without the credential don't collide on the
	// unique indexes.
	Email        *string `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash string  `gorm:"type:varchar(255)"`

	FbUserID      *string `gorm:"type:varchar(64);uniqueIndex"`
	FbAccessToken string  `gorm:"type:varchar(512)"`
	FbTokenExpiry int64

	Token string `gorm:"type:varchar(1024);index"`
	Setup bool

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to domain User. Following is resolved
// separately from the follows table.
func (m *UserModel) ToDomain() *User {
	u := &User{
		ID:            m.ID,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		ImageURL:      m.ImageURL,
		Description:   m.Description,
		School:        m.School,
		Clubs:         []string(m.Clubs),
		PasswordHash:  m.PasswordHash,
		FbAccessToken: m.FbAccessToken,
		FbTokenExpiry: m.FbTokenExpiry,
		Token:         m.Token,
		Setup:         m.Setup,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Email != nil {
		u.Email = *m.Email
	}
	if m.FbUserID != nil {
		u.FbUserID = *m.FbUserID
	}
	return u
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	m := &UserModel{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		ImageURL:      u.ImageURL,
		Description:   u.Description,
		School:        u.School,
		Clubs:         database.StringArray(u.Clubs),
		PasswordHash:  u.PasswordHash,
		FbAccessToken: u.FbAccessToken,
		FbTokenExpiry: u.FbTokenExpiry,
		Token:         u.Token,
		Setup:         u.Setup,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.Email != "" {
		m.Email = &u.Email
	}
	if u.FbUserID != "" {
		m.FbUserID = &u.FbUserID
	}
	return m
}

// FollowModel is the GORM model for the follows table. One row per edge,
// follower side only; the pair is unique so a duplicate follow is an
// atomic insert conflict, not a check-then-act race.
type FollowModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	FollowerID  string    `gorm:"column:follower_id;type:varchar(36);not null;uniqueIndex:idx_follower_following"`
	FollowingID string    `gorm:"column:following_id;type:varchar(36);not null;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (FollowModel) TableName() string { return "follows" }

// PostModel is the GORM model for the posts table.
type PostModel struct {
	ID          string               `gorm:"type:varchar(36);primaryKey"`
	AuthorID    string               `gorm:"type:varchar(36);not null;index"`
	Description string               `gorm:"type:text"`
	ImageURI    string               `gorm:"type:varchar(512)"`
	Prompts     database.StringArray `gorm:"type:text"`
	Discovery   bool                 `gorm:"index"`
	Published   int64                `gorm:"index"`
	CreatedAt   time.Time            `gorm:"autoCreateTime"`
}

func (PostModel) TableName() string { return "posts" }

func (m *PostModel) ToDomain() *Post {
	return &Post{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Description: m.Description,
		ImageURI:    m.ImageURI,
		Prompts:     []string(m.Prompts),
		Discovery:   m.Discovery,
		Published:   m.Published,
		CreatedAt:   m.CreatedAt,
	}
}

func PostToModel(p *Post) *PostModel {
	return &PostModel{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Description: p.Description,
		ImageURI:    p.ImageURI,
		Prompts:     database.StringArray(p.Prompts),
		Discovery:   p.Discovery,
		Published:   p.Published,
		CreatedAt:   p.CreatedAt,
	}
}

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	PostID      string `gorm:"type:varchar(36);not null;index"`
	CommenterID string `gorm:"type:varchar(36);not null;index"`
	Comment     string `gorm:"type:text"`
	Published   int64
}

func (CommentModel) TableName() string { return "comments" }

func (m *CommentModel) ToDomain() *Comment {
	return &Comment{
		ID:          m.ID,
		PostID:      m.PostID,
		CommenterID: m.CommenterID,
		Comment:     m.Comment,
		Published:   m.Published,
	}
}

func CommentToModel(c *Comment) *CommentModel {
	return &CommentModel{
		ID:          c.ID,
		PostID:      c.PostID,
		CommenterID: c.CommenterID,
		Comment:     c.Comment,
		Published:   c.Published,
	}
}

// VoteModel is the GORM model for the votes table. The composite unique
// index makes duplicate-vote prevention a store-level guarantee.
type VoteModel struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	PostID      string `gorm:"type:varchar(36);not null;uniqueIndex:idx_vote_once"`
	PromptIndex int    `gorm:"not null;uniqueIndex:idx_vote_once"`
	VoterID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_vote_once"`
	Response    bool
}

func (VoteModel) TableName() string { return "votes" }

func (m *VoteModel) ToDomain() *Vote {
	return &Vote{
		ID:          m.ID,
		PostID:      m.PostID,
		PromptIndex: m.PromptIndex,
		VoterID:     m.VoterID,
		Response:    m.Response,
	}
}

func VoteToModel(v *Vote) *VoteModel {
	return &VoteModel{
		ID:          v.ID,
		PostID:      v.PostID,
		PromptIndex: v.PromptIndex,
		VoterID:     v.VoterID,
		Response:    v.Response,
	}
}

// NotificationModel is the GORM model for the notifications table.
type NotificationModel struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Location  string `gorm:"type:varchar(36);index"`
	Source    string `gorm:"type:varchar(36)"`
	Recipient string `gorm:"type:varchar(36);not null;index"`
	Type      string `gorm:"type:varchar(16)"`
	Seen      bool
	Time      int64
}

func (NotificationModel) TableName() string { return "notifications" }

func (m *NotificationModel) ToDomain() *Notification {
	return &Notification{
		ID:        m.ID,
		Location:  m.Location,
		Source:    m.Source,
		Recipient: m.Recipient,
		Type:      m.Type,
		Seen:      m.Seen,
		Time:      m.Time,
	}
}

func NotificationToModel(n *Notification) *NotificationModel {
	return &NotificationModel{
		ID:        n.ID,
		Location:  n.Location,
		Source:    n.Source,
		Recipient: n.Recipient,
		Type:      n.Type,
		Seen:      n.Seen,
		Time:      n.Time,
	}
}
