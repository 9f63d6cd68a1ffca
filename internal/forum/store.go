package forum

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"forum-service/internal/util"
)

// Store holds the client's copy of threads, per-thread comment lists and the
// tag catalog. Readers get copies; only ThreadLifecycle, TagResolver and
// VoteCoordinator write to it.
type Store struct {
	mu       sync.RWMutex
	threads  []Thread
	comments map[uuid.UUID][]Comment
	tags     []Tag
}

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{comments: make(map[uuid.UUID][]Comment)}
}

// Threads returns the collection in store order, most recently inserted first
func (s *Store) Threads() []Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Thread, len(s.threads))
	for i, t := range s.threads {
		out[i] = t.clone()
	}
	return out
}

// Thread looks up a thread by ID
func (s *Store) Thread(id uuid.UUID) (Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.threadIndex(id); i >= 0 {
		return s.threads[i].clone(), true
	}
	return Thread{}, false
}

// ReplaceThreads swaps in a freshly fetched collection
func (s *Store) ReplaceThreads(threads []Thread) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads = make([]Thread, len(threads))
	for i, t := range threads {
		s.threads[i] = t.clone()
	}
}

// UpsertThread replaces a known thread in place or inserts it at the head
func (s *Store) UpsertThread(t Thread) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.threadIndex(t.ID); i >= 0 {
		s.threads[i] = t.clone()
		return
	}
	s.threads = append([]Thread{t.clone()}, s.threads...)
}

// RecordComment mirrors a successful comment post: comment_count goes up by
// one and last activity advances to at, never backwards.
func (s *Store) RecordComment(threadID uuid.UUID, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.threadIndex(threadID)
	if i < 0 {
		return false
	}
	s.threads[i].CommentCount++
	if at.After(s.threads[i].LastActivityAt) {
		s.threads[i].LastActivityAt = at
	}
	return true
}

func (s *Store) threadIndex(id uuid.UUID) int {
	for i := range s.threads {
		if s.threads[i].ID == id {
			return i
		}
	}
	return -1
}

// Comments returns the flat comment list last loaded for a thread
func (s *Store) Comments(threadID uuid.UUID) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.comments[threadID]
	out := make([]Comment, len(src))
	for i, c := range src {
		out[i] = c.clone()
	}
	return out
}

// Comment looks up a loaded comment by ID across all threads
func (s *Store) Comment(id uuid.UUID) (Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if threadID, i := s.commentIndex(id); i >= 0 {
		return s.comments[threadID][i].clone(), true
	}
	return Comment{}, false
}

// ReplaceComments swaps in a freshly fetched comment list for one thread
func (s *Store) ReplaceComments(threadID uuid.UUID, comments []Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]Comment, len(comments))
	for i, c := range comments {
		list[i] = c.clone()
	}
	s.comments[threadID] = list
}

// ReplaceCommentBody swaps a comment's body and update time, leaving its
// position, parent and creation time alone
func (s *Store) ReplaceCommentBody(id uuid.UUID, body string, updatedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	threadID, i := s.commentIndex(id)
	if i < 0 {
		return false
	}
	c := &s.comments[threadID][i]
	c.Body = body
	if !updatedAt.IsZero() {
		c.UpdatedAt = updatedAt
	}
	return true
}

func (s *Store) commentIndex(id uuid.UUID) (uuid.UUID, int) {
	for threadID, list := range s.comments {
		for i := range list {
			if list[i].ID == id {
				return threadID, i
			}
		}
	}
	return uuid.Nil, -1
}

// Tags returns the cached tag catalog
func (s *Store) Tags() []Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Tag(nil), s.tags...)
}

// ReplaceTags swaps in a freshly fetched catalog
func (s *Store) ReplaceTags(tags []Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append([]Tag(nil), tags...)
}

// AddTag adds a tag to the catalog unless its ID is already there
func (s *Store) AddTag(tag Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if t.ID == tag.ID {
			return
		}
	}
	s.tags = append(s.tags, tag)
}

// TagByKey finds a catalog tag whose name normalizes to key
func (s *Store) TagByKey(key string) (Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tags {
		if t.Slug == key || util.TagKey(t.Name) == key {
			return t, true
		}
	}
	return Tag{}, false
}

// voteState is what a toggle reads before flipping
type voteState struct {
	slug      string
	upvotedBy []uuid.UUID
}

func (s *Store) voteState(t Target) (voteState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch t.Kind {
	case TargetThread:
		if i := s.threadIndex(t.ID); i >= 0 {
			th := s.threads[i]
			return voteState{slug: th.Slug, upvotedBy: append([]uuid.UUID(nil), th.UpvotedBy...)}, true
		}
	case TargetComment:
		if threadID, i := s.commentIndex(t.ID); i >= 0 {
			c := s.comments[threadID][i]
			return voteState{upvotedBy: append([]uuid.UUID(nil), c.UpvotedBy...)}, true
		}
	}
	return voteState{}, false
}

// voteFields points at the voter set and count of t. The caller holds s.mu.
func (s *Store) voteFields(t Target) (*[]uuid.UUID, *int) {
	switch t.Kind {
	case TargetThread:
		if i := s.threadIndex(t.ID); i >= 0 {
			return &s.threads[i].UpvotedBy, &s.threads[i].UpvoteCount
		}
	case TargetComment:
		if threadID, i := s.commentIndex(t.ID); i >= 0 {
			c := &s.comments[threadID][i]
			return &c.UpvotedBy, &c.UpvoteCount
		}
	}
	return nil, nil
}

// flipVote sets whether userID upvoted t on the current voter set, moving
// the count by one when the membership changes. Votes of other users that
// arrived with a reload are kept.
func (s *Store) flipVote(t Target, userID uuid.UUID, upvoted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters, count := s.voteFields(t)
	if voters == nil {
		return
	}
	had := containsID(*voters, userID)
	switch {
	case upvoted && !had:
		*voters = append(append([]uuid.UUID(nil), *voters...), userID)
		*count++
	case !upvoted && had:
		*voters = withoutID(*voters, userID)
		*count--
	}
}

// settleVote records the authority's answer for userID on t
func (s *Store) settleVote(t Target, userID uuid.UUID, upvoted bool, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voters, count := s.voteFields(t)
	if voters == nil {
		return
	}
	next := withoutID(*voters, userID)
	if upvoted {
		next = append(next, userID)
	}
	*voters = next
	*count = total
}
