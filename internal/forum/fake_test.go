package forum

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"forum-service/internal/util"
)

// fakeAuthority is an in-memory Authority. Any *Fn hook overrides the
// default behavior of its method.
type fakeAuthority struct {
	mu       sync.Mutex
	calls    map[string]int
	threads  []Thread
	comments map[string][]Comment
	tags     []Tag
	now      time.Time

	listCommentsFn func(ctx context.Context, slug string) ([]Comment, error)
	createTagFn    func(ctx context.Context, name string) (Tag, error)
	toggleThreadFn func(ctx context.Context, slug string) (VoteResult, error)
	createThreadFn func(ctx context.Context, payload NewThread) (Thread, error)
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		calls:    make(map[string]int),
		comments: make(map[string][]Comment),
		now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeAuthority) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAuthority) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *fakeAuthority) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *fakeAuthority) ListThreads(ctx context.Context) ([]Thread, error) {
	f.record("ListThreads")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Thread(nil), f.threads...), nil
}

func (f *fakeAuthority) GetThread(ctx context.Context, slug string) (Thread, error) {
	f.record("GetThread")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.Slug == slug {
			return t, nil
		}
	}
	return Thread{}, NewError(NotFound, "", nil)
}

func (f *fakeAuthority) ListComments(ctx context.Context, slug string) ([]Comment, error) {
	f.record("ListComments")
	if f.listCommentsFn != nil {
		return f.listCommentsFn(ctx, slug)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Comment(nil), f.comments[slug]...), nil
}

func (f *fakeAuthority) CreateThread(ctx context.Context, payload NewThread) (Thread, error) {
	f.record("CreateThread")
	if f.createThreadFn != nil {
		return f.createThreadFn(ctx, payload)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var tags []Tag
	for _, id := range payload.TagIDs {
		for _, t := range f.tags {
			if t.ID == id {
				tags = append(tags, t)
			}
		}
	}
	at := f.tick()
	t := Thread{
		ID:             uuid.New(),
		Slug:           util.Slugify(payload.Title),
		Title:          payload.Title,
		Body:           payload.Body,
		Type:           payload.Type,
		Tags:           tags,
		CreatedAt:      at,
		LastActivityAt: at,
	}
	f.threads = append([]Thread{t}, f.threads...)
	return t, nil
}

func (f *fakeAuthority) UpdateThread(ctx context.Context, slug string, payload ThreadUpdate) (Thread, error) {
	f.record("UpdateThread")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.threads {
		if t.Slug == slug {
			t.Title, t.Body, t.Type = payload.Title, payload.Body, payload.Type
			t.LastActivityAt = f.tick()
			f.threads[i] = t
			return t, nil
		}
	}
	return Thread{}, NewError(NotFound, "", nil)
}

func (f *fakeAuthority) CreateComment(ctx context.Context, payload NewComment) (Comment, error) {
	f.record("CreateComment")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.threads {
		if t.ID == payload.ThreadID {
			at := f.tick()
			c := Comment{ID: uuid.New(), ThreadID: t.ID, ParentID: payload.ParentID, Body: payload.Body, CreatedAt: at, UpdatedAt: at}
			f.comments[t.Slug] = append(f.comments[t.Slug], c)
			return c, nil
		}
	}
	return Comment{}, NewError(NotFound, "", nil)
}

func (f *fakeAuthority) UpdateComment(ctx context.Context, id uuid.UUID, body string) (Comment, error) {
	f.record("UpdateComment")
	f.mu.Lock()
	defer f.mu.Unlock()
	for slug, list := range f.comments {
		for i, c := range list {
			if c.ID == id {
				c.Body = body
				c.UpdatedAt = f.tick()
				f.comments[slug][i] = c
				return c, nil
			}
		}
	}
	return Comment{}, NewError(NotFound, "", nil)
}

func (f *fakeAuthority) ToggleThreadVote(ctx context.Context, slug string) (VoteResult, error) {
	f.record("ToggleThreadVote")
	if f.toggleThreadFn != nil {
		return f.toggleThreadFn(ctx, slug)
	}
	return VoteResult{}, NewError(NotFound, "", nil)
}

func (f *fakeAuthority) ToggleCommentVote(ctx context.Context, id uuid.UUID) (VoteResult, error) {
	f.record("ToggleCommentVote")
	return VoteResult{Upvoted: true, Count: 1}, nil
}

func (f *fakeAuthority) ListTags(ctx context.Context) ([]Tag, error) {
	f.record("ListTags")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Tag(nil), f.tags...), nil
}

func (f *fakeAuthority) CreateTag(ctx context.Context, name string) (Tag, error) {
	f.record("CreateTag")
	if f.createTagFn != nil {
		return f.createTagFn(ctx, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := util.TagKey(name)
	for _, t := range f.tags {
		if t.Slug == key {
			return Tag{}, NewError(Conflict, "", nil)
		}
	}
	t := Tag{ID: uuid.New(), Name: name, Slug: key}
	f.tags = append(f.tags, t)
	return t, nil
}

var alice = Identity{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Username: "alice"}
