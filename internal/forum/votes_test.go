package forum

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votingSetup(t *testing.T, identity IdentityProvider) (*fakeAuthority, *Store, *VoteCoordinator, Thread) {
	t.Helper()
	thread := Thread{ID: uuid.New(), Slug: "rain", Title: "Rain", Type: ThreadTypeDiscussion, UpvoteCount: 5, UpvotedBy: []uuid.UUID{uuid.New()}}
	authority := newFakeAuthority()
	store := NewStore()
	store.ReplaceThreads([]Thread{thread})
	return authority, store, NewVoteCoordinator(authority, identity, store, nil), thread
}

func TestVoteCoordinator_OptimisticThenRollback(t *testing.T) {
	authority, store, votes, thread := votingSetup(t, StaticIdentity(alice))

	authority.toggleThreadFn = func(ctx context.Context, slug string) (VoteResult, error) {
		during, _ := store.Thread(thread.ID)
		assert.Equal(t, 6, during.UpvoteCount, "optimistic count before resolution")
		assert.True(t, during.UpvotedByUser(alice.ID), "optimistic membership before resolution")
		assert.Equal(t, VotePending, votes.Status(ThreadTarget(thread.ID)))
		return VoteResult{}, errors.New("timeout")
	}

	_, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))

	assert.Equal(t, NetworkFailure, KindOf(err))
	after, _ := store.Thread(thread.ID)
	assert.Equal(t, 5, after.UpvoteCount)
	assert.False(t, after.UpvotedByUser(alice.ID))
	assert.Len(t, after.UpvotedBy, 1)
	assert.Equal(t, VoteIdle, votes.Status(ThreadTarget(thread.ID)))
}

func TestVoteCoordinator_AuthorityWins(t *testing.T) {
	authority, store, votes, thread := votingSetup(t, StaticIdentity(alice))
	authority.toggleThreadFn = func(ctx context.Context, slug string) (VoteResult, error) {
		assert.Equal(t, thread.Slug, slug)
		// someone else voted meanwhile
		return VoteResult{Upvoted: true, Count: 7}, nil
	}

	res, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))

	require.NoError(t, err)
	assert.Equal(t, VoteResult{Upvoted: true, Count: 7}, res)
	after, _ := store.Thread(thread.ID)
	assert.Equal(t, 7, after.UpvoteCount)
	assert.True(t, after.UpvotedByUser(alice.ID))
}

func TestVoteCoordinator_KeepsVotesFromReloadDuringToggle(t *testing.T) {
	bob := uuid.New()

	t.Run("success", func(t *testing.T) {
		authority, store, votes, thread := votingSetup(t, StaticIdentity(alice))
		authority.toggleThreadFn = func(ctx context.Context, slug string) (VoteResult, error) {
			reloaded := thread
			reloaded.UpvotedBy = append(append([]uuid.UUID(nil), thread.UpvotedBy...), bob)
			reloaded.UpvoteCount = 6
			store.ReplaceThreads([]Thread{reloaded})
			return VoteResult{Upvoted: true, Count: 7}, nil
		}

		_, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))

		require.NoError(t, err)
		after, _ := store.Thread(thread.ID)
		assert.Equal(t, 7, after.UpvoteCount)
		assert.True(t, after.UpvotedByUser(alice.ID))
		assert.True(t, after.UpvotedByUser(bob), "reloaded voter survives the toggle")
		assert.Len(t, after.UpvotedBy, 3)
	})

	t.Run("rollback", func(t *testing.T) {
		authority, store, votes, thread := votingSetup(t, StaticIdentity(alice))
		authority.toggleThreadFn = func(ctx context.Context, slug string) (VoteResult, error) {
			reloaded := thread
			reloaded.UpvotedBy = append(append([]uuid.UUID(nil), thread.UpvotedBy...), bob)
			reloaded.UpvoteCount = 6
			store.ReplaceThreads([]Thread{reloaded})
			return VoteResult{}, errors.New("timeout")
		}

		_, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))

		assert.Equal(t, NetworkFailure, KindOf(err))
		after, _ := store.Thread(thread.ID)
		assert.Equal(t, 6, after.UpvoteCount, "reloaded count is kept")
		assert.False(t, after.UpvotedByUser(alice.ID))
		assert.True(t, after.UpvotedByUser(bob))
	})
}

func TestVoteCoordinator_UnvoteIsOptimisticDecrement(t *testing.T) {
	authority, store, votes, thread := votingSetup(t, StaticIdentity(alice))
	thread.UpvotedBy = append(thread.UpvotedBy, alice.ID)
	thread.UpvoteCount = 2
	store.ReplaceThreads([]Thread{thread})

	authority.toggleThreadFn = func(ctx context.Context, slug string) (VoteResult, error) {
		during, _ := store.Thread(thread.ID)
		assert.Equal(t, 1, during.UpvoteCount)
		assert.False(t, during.UpvotedByUser(alice.ID))
		return VoteResult{Upvoted: false, Count: 1}, nil
	}

	res, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))
	require.NoError(t, err)
	assert.False(t, res.Upvoted)
}

func TestVoteCoordinator_BusyWhileInFlight(t *testing.T) {
	authority, _, votes, thread := votingSetup(t, StaticIdentity(alice))
	entered := make(chan struct{})
	unblock := make(chan struct{})
	authority.toggleThreadFn = func(ctx context.Context, slug string) (VoteResult, error) {
		close(entered)
		<-unblock
		return VoteResult{Upvoted: true, Count: 6}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))
		done <- err
	}()
	<-entered

	_, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))
	assert.ErrorIs(t, err, ErrBusy)

	close(unblock)
	require.NoError(t, <-done)
	assert.Equal(t, 1, authority.count("ToggleThreadVote"))
	assert.Equal(t, VoteIdle, votes.Status(ThreadTarget(thread.ID)))
}

func TestVoteCoordinator_UnauthorizedMakesNoCall(t *testing.T) {
	authority, store, votes, thread := votingSetup(t, Anonymous{})

	_, err := votes.Toggle(context.Background(), ThreadTarget(thread.ID))

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, authority.count("ToggleThreadVote"))
	after, _ := store.Thread(thread.ID)
	assert.Equal(t, 5, after.UpvoteCount)
}

func TestVoteCoordinator_CommentTarget(t *testing.T) {
	authority, store, votes, thread := votingSetup(t, StaticIdentity(alice))
	c := Comment{ID: uuid.New(), ThreadID: thread.ID}
	store.ReplaceComments(thread.ID, []Comment{c})

	res, err := votes.Toggle(context.Background(), CommentTarget(c.ID))

	require.NoError(t, err)
	assert.True(t, res.Upvoted)
	assert.Equal(t, 1, authority.count("ToggleCommentVote"))
	after, _ := store.Comment(c.ID)
	assert.Equal(t, 1, after.UpvoteCount)
	assert.Equal(t, []uuid.UUID{alice.ID}, after.UpvotedBy)

	_, err = votes.Toggle(context.Background(), CommentTarget(uuid.New()))
	assert.Equal(t, NotFound, KindOf(err))
}
