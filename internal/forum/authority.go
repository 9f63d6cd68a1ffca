package forum

import (
	"context"

	"github.com/google/uuid"
)

// IdentityProvider supplies the current caller. ok is false when nobody is
// signed in.
type IdentityProvider interface {
	CurrentUser() (Identity, bool)
}

// Authority is the remote system of record for threads, comments, tags and
// votes. Implementations return *Error values classified by Kind; untyped
// errors are treated as network failures.
type Authority interface {
	ListThreads(ctx context.Context) ([]Thread, error)
	GetThread(ctx context.Context, slug string) (Thread, error)
	ListComments(ctx context.Context, threadSlug string) ([]Comment, error)
	CreateThread(ctx context.Context, payload NewThread) (Thread, error)
	UpdateThread(ctx context.Context, slug string, payload ThreadUpdate) (Thread, error)
	CreateComment(ctx context.Context, payload NewComment) (Comment, error)
	UpdateComment(ctx context.Context, id uuid.UUID, body string) (Comment, error)
	ToggleThreadVote(ctx context.Context, slug string) (VoteResult, error)
	ToggleCommentVote(ctx context.Context, id uuid.UUID) (VoteResult, error)
	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, name string) (Tag, error)
}

// Anonymous is an IdentityProvider with nobody signed in
type Anonymous struct{}

func (Anonymous) CurrentUser() (Identity, bool) { return Identity{}, false }

// StaticIdentity always reports the same signed-in user
type StaticIdentity Identity

func (s StaticIdentity) CurrentUser() (Identity, bool) {
	return Identity(s), s.ID != uuid.Nil
}
