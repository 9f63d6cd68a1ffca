package forum

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"forum-service/internal/util"
)

const (
	threadsKey        = "threads"
	commentsKeyPrefix = "comments:"
	maxConcurrentTags = 4
)

// ThreadLifecycle owns the client's thread collection and comment lists and
// orchestrates every read and write against the authority
type ThreadLifecycle struct {
	authority Authority
	identity  IdentityProvider
	store     *Store
	tags      *TagResolver
	votes     *VoteCoordinator
	loads     *requestTracker
	logger    *zap.Logger

	mu       sync.RWMutex
	criteria Criteria
}

// NewThreadLifecycle wires a lifecycle with its own Store, TagResolver and
// VoteCoordinator
func NewThreadLifecycle(authority Authority, identity IdentityProvider, logger *zap.Logger) *ThreadLifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	if identity == nil {
		identity = Anonymous{}
	}
	store := NewStore()
	return &ThreadLifecycle{
		authority: authority,
		identity:  identity,
		store:     store,
		tags:      NewTagResolver(authority, store, logger),
		votes:     NewVoteCoordinator(authority, identity, store, logger),
		loads:     newRequestTracker(),
		logger:    logger,
		criteria:  DefaultCriteria(),
	}
}

func (l *ThreadLifecycle) Store() *Store { return l.store }

func (l *ThreadLifecycle) Tags() *TagResolver { return l.tags }

func (l *ThreadLifecycle) Votes() *VoteCoordinator { return l.votes }

func (l *ThreadLifecycle) Identity() IdentityProvider { return l.identity }

// Criteria returns the active search, filter and sort settings
func (l *ThreadLifecycle) Criteria() Criteria {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.criteria
}

// SetCriteria replaces the active search, filter and sort settings
func (l *ThreadLifecycle) SetCriteria(c Criteria) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.criteria = c
}

// Threads returns the collection as the list view shows it
func (l *ThreadLifecycle) Threads() []Thread {
	return Apply(l.store.Threads(), l.Criteria())
}

// RefreshThreads reloads the collection. If a newer refresh starts first,
// this one's result is dropped and ErrSuperseded returned.
func (l *ThreadLifecycle) RefreshThreads(ctx context.Context) error {
	ctx, token, release := l.loads.begin(ctx, threadsKey)
	defer release()

	threads, err := l.authority.ListThreads(ctx)
	if !l.loads.current(threadsKey, token) {
		return ErrSuperseded
	}
	if err != nil {
		return wrap("list threads", err)
	}
	if !l.loads.commit(threadsKey, token, func() { l.store.ReplaceThreads(threads) }) {
		return ErrSuperseded
	}
	l.logger.Debug("Threads refreshed", zap.Int("count", len(threads)))
	return nil
}

// OpenThread fetches one thread and stores it
func (l *ThreadLifecycle) OpenThread(ctx context.Context, slug string) (Thread, error) {
	thread, err := l.authority.GetThread(ctx, slug)
	if err != nil {
		return Thread{}, wrap("get thread", err)
	}
	l.store.UpsertThread(thread)
	return thread, nil
}

// LoadComments fetches a thread's comments and returns the rebuilt tree. A
// newer load for the same thread cancels this one, and a superseded result
// is never applied.
func (l *ThreadLifecycle) LoadComments(ctx context.Context, threadID uuid.UUID) ([]CommentNode, error) {
	const op = "list comments"

	thread, ok := l.store.Thread(threadID)
	if !ok {
		return nil, errorf(NotFound, op, "thread %s is not loaded", threadID)
	}

	key := commentsKeyPrefix + threadID.String()
	ctx, token, release := l.loads.begin(ctx, key)
	defer release()

	comments, err := l.authority.ListComments(ctx, thread.Slug)
	if !l.loads.current(key, token) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	if !l.loads.commit(key, token, func() { l.store.ReplaceComments(threadID, comments) }) {
		return nil, ErrSuperseded
	}
	return BuildCommentTree(comments), nil
}

// CancelCommentLoad discards any in-flight comment load for a thread, for
// when its view is torn down
func (l *ThreadLifecycle) CancelCommentLoad(threadID uuid.UUID) {
	l.loads.cancel(commentsKeyPrefix + threadID.String())
}

// CommentTree rebuilds the tree from the last loaded comment list
func (l *ThreadLifecycle) CommentTree(threadID uuid.UUID) []CommentNode {
	return BuildCommentTree(l.store.Comments(threadID))
}

// ToggleVote delegates to the VoteCoordinator
func (l *ThreadLifecycle) ToggleVote(ctx context.Context, t Target) (VoteResult, error) {
	return l.votes.Toggle(ctx, t)
}

// CreateThread resolves the draft's tags, submits it, and puts the created
// thread at the head of the collection. If the active type filter would
// hide the new thread, the filter switches to its type.
func (l *ThreadLifecycle) CreateThread(ctx context.Context, draft ThreadDraft) (Thread, error) {
	const op = "create thread"

	if _, ok := l.identity.CurrentUser(); !ok {
		return Thread{}, NewError(Unauthorized, op, nil)
	}
	if err := draft.Validate(); err != nil {
		return Thread{}, err
	}

	tags, err := l.resolveTags(ctx, draft.TagNames)
	if err != nil {
		return Thread{}, err
	}

	thread, err := l.authority.CreateThread(ctx, NewThread{
		Title:  strings.TrimSpace(draft.Title),
		Body:   draft.Body,
		Type:   draft.Type,
		TagIDs: tags.IDs(),
	})
	if err != nil {
		return Thread{}, wrap(op, err)
	}
	l.store.UpsertThread(thread)

	l.mu.Lock()
	if !l.criteria.Type.Admits(thread.Type) {
		l.criteria.Type = TypeFilter(thread.Type)
	}
	l.mu.Unlock()

	l.logger.Info("Thread created",
		zap.String("thread_id", thread.ID.String()),
		zap.String("slug", thread.Slug),
		zap.Int("tags", len(thread.Tags)),
	)
	return thread, nil
}

// EditThread replaces an existing thread's fields. Only its author may.
func (l *ThreadLifecycle) EditThread(ctx context.Context, threadID uuid.UUID, draft ThreadDraft) (Thread, error) {
	const op = "edit thread"

	user, ok := l.identity.CurrentUser()
	if !ok {
		return Thread{}, NewError(Unauthorized, op, nil)
	}
	current, ok := l.store.Thread(threadID)
	if !ok {
		return Thread{}, errorf(NotFound, op, "thread %s is not loaded", threadID)
	}
	if current.Author.ID != user.ID {
		return Thread{}, errorf(Unauthorized, op, "only the author can edit this thread")
	}
	if err := draft.Validate(); err != nil {
		return Thread{}, err
	}

	tags, err := l.resolveTags(ctx, draft.TagNames)
	if err != nil {
		return Thread{}, err
	}

	thread, err := l.authority.UpdateThread(ctx, current.Slug, ThreadUpdate{
		Title:  strings.TrimSpace(draft.Title),
		Body:   draft.Body,
		Type:   draft.Type,
		TagIDs: tags.IDs(),
	})
	if err != nil {
		return Thread{}, wrap(op, err)
	}
	l.store.UpsertThread(thread)
	return thread, nil
}

// resolveTags resolves names concurrently. Names with equal keys are
// resolved once, and tags that come back with the same ID collapse.
func (l *ThreadLifecycle) resolveTags(ctx context.Context, names []string) (*TagSelection, error) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := util.TagKey(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, name)
	}

	resolved := make([]Tag, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTags)
	for i, name := range unique {
		g.Go(func() error {
			tag, err := l.tags.Resolve(gctx, name)
			if err != nil {
				return err
			}
			resolved[i] = tag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	selection := &TagSelection{}
	for _, tag := range resolved {
		selection.Add(tag)
	}
	return selection, nil
}

// PostComment submits a comment or reply, mirrors the new comment count on
// the thread, then reloads the thread's comments. A failed reload is logged
// and the posted comment still returned.
func (l *ThreadLifecycle) PostComment(ctx context.Context, threadID uuid.UUID, body string, parentID *uuid.UUID) (Comment, error) {
	const op = "post comment"

	if _, ok := l.identity.CurrentUser(); !ok {
		return Comment{}, NewError(Unauthorized, op, nil)
	}
	if err := validateCommentBody(op, body); err != nil {
		return Comment{}, err
	}
	if _, ok := l.store.Thread(threadID); !ok {
		return Comment{}, errorf(NotFound, op, "thread %s is not loaded", threadID)
	}
	if parentID != nil {
		if parent, ok := l.store.Comment(*parentID); ok && parent.ThreadID != threadID {
			return Comment{}, errorf(Validation, op, "parent comment belongs to another thread")
		}
	}

	comment, err := l.authority.CreateComment(ctx, NewComment{ThreadID: threadID, ParentID: parentID, Body: body})
	if err != nil {
		return Comment{}, wrap(op, err)
	}

	at := comment.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	l.store.RecordComment(threadID, at)

	if _, err := l.LoadComments(ctx, threadID); err != nil && !errors.Is(err, ErrSuperseded) {
		l.logger.Warn("Comment posted but reload failed",
			zap.String("thread_id", threadID.String()),
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err),
		)
	}
	return comment, nil
}

// EditComment replaces a comment's body in place. Only its author may.
func (l *ThreadLifecycle) EditComment(ctx context.Context, commentID uuid.UUID, body string) (Comment, error) {
	const op = "edit comment"

	user, ok := l.identity.CurrentUser()
	if !ok {
		return Comment{}, NewError(Unauthorized, op, nil)
	}
	current, ok := l.store.Comment(commentID)
	if !ok {
		return Comment{}, errorf(NotFound, op, "comment %s is not loaded", commentID)
	}
	if current.Author.ID != user.ID {
		return Comment{}, errorf(Unauthorized, op, "only the author can edit this comment")
	}
	if err := validateCommentBody(op, body); err != nil {
		return Comment{}, err
	}

	updated, err := l.authority.UpdateComment(ctx, commentID, body)
	if err != nil {
		return Comment{}, wrap(op, err)
	}
	l.store.ReplaceCommentBody(commentID, updated.Body, updated.UpdatedAt)

	edited, _ := l.store.Comment(commentID)
	return edited, nil
}
