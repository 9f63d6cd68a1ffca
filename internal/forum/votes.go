package forum

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TargetKind says whether a vote target is a thread or a comment
type TargetKind int

const (
	TargetThread TargetKind = iota
	TargetComment
)

func (k TargetKind) String() string {
	if k == TargetComment {
		return "comment"
	}
	return "thread"
}

// Target identifies something that can be upvoted
type Target struct {
	Kind TargetKind
	ID   uuid.UUID
}

// ThreadTarget returns the vote target for a thread
func ThreadTarget(id uuid.UUID) Target { return Target{Kind: TargetThread, ID: id} }

// CommentTarget returns the vote target for a comment
func CommentTarget(id uuid.UUID) Target { return Target{Kind: TargetComment, ID: id} }

// VoteStatus is the per-target toggle state
type VoteStatus int

const (
	VoteIdle VoteStatus = iota
	VotePending
)

// VoteCoordinator applies upvote toggles optimistically and reconciles them
// with the authority. At most one toggle per target is in flight.
type VoteCoordinator struct {
	authority Authority
	identity  IdentityProvider
	store     *Store
	logger    *zap.Logger

	mu      sync.Mutex
	pending map[Target]VoteStatus
}

// NewVoteCoordinator creates a VoteCoordinator writing to store
func NewVoteCoordinator(authority Authority, identity IdentityProvider, store *Store, logger *zap.Logger) *VoteCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoteCoordinator{
		authority: authority,
		identity:  identity,
		store:     store,
		logger:    logger,
		pending:   make(map[Target]VoteStatus),
	}
}

// Status returns the toggle state of t
func (v *VoteCoordinator) Status(t Target) VoteStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending[t]
}

// Toggle flips the current user's upvote on t. The store shows the flipped
// state while the authority call is in flight; the authority's answer then
// replaces it, or the previous state is restored if the call fails.
func (v *VoteCoordinator) Toggle(ctx context.Context, t Target) (VoteResult, error) {
	op := "toggle " + t.Kind.String() + " vote"

	user, ok := v.identity.CurrentUser()
	if !ok {
		return VoteResult{}, NewError(Unauthorized, op, nil)
	}
	if !v.acquire(t) {
		return VoteResult{}, NewError(Busy, op, nil)
	}
	defer v.release(t)

	before, ok := v.store.voteState(t)
	if !ok {
		return VoteResult{}, errorf(NotFound, op, "%s %s is not loaded", t.Kind, t.ID)
	}

	wasUpvoted := containsID(before.upvotedBy, user.ID)
	v.store.flipVote(t, user.ID, !wasUpvoted)

	var (
		res VoteResult
		err error
	)
	if t.Kind == TargetThread {
		res, err = v.authority.ToggleThreadVote(ctx, before.slug)
	} else {
		res, err = v.authority.ToggleCommentVote(ctx, t.ID)
	}
	if err != nil {
		v.store.flipVote(t, user.ID, wasUpvoted)
		v.logger.Warn("Vote toggle failed, rolled back",
			zap.String("target", t.Kind.String()),
			zap.String("target_id", t.ID.String()),
			zap.Error(err),
		)
		return VoteResult{}, wrap(op, err)
	}

	v.store.settleVote(t, user.ID, res.Upvoted, res.Count)
	return res, nil
}

func (v *VoteCoordinator) acquire(t Target) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pending[t] == VotePending {
		return false
	}
	v.pending[t] = VotePending
	return true
}

func (v *VoteCoordinator) release(t Target) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.pending, t)
}
