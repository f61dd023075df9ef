package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSession     = errors.New("invalid session")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrSelfFollow = errors.New("cannot follow yourself")

	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not your post")
	ErrBadImage     = errors.New("bad image data")

	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not your comment")

	ErrBadResponse    = errors.New("response must be a boolean")
	ErrOwnPost        = errors.New("cannot vote on your own post")
	ErrAlreadyVoted   = errors.New("already voted")
	ErrPromptNotFound = errors.New("prompt not found")
)
