package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"forum-service/internal/database"
	"forum-service/internal/forum"
	"forum-service/internal/metrics"
	"forum-service/internal/router"
)

const testSecret = "client-test-secret"

func signToken(t *testing.T, id uuid.UUID, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id.String(),
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// newForumServer serves the real API over an in-memory sqlite database
func newForumServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.New(database.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	r := router.Setup(router.Config{
		DB:        db,
		Logger:    zap.NewNop(),
		JWTSecret: testSecret,
		BasePath:  "/api/forum",
		Metrics:   metrics.NewWithRegistry(prometheus.NewRegistry(), nil),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestForumClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   forum.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"UNAUTHORIZED","message":"no"}}`, forum.Unauthorized},
		{"forbidden", http.StatusForbidden, `{}`, forum.Unauthorized},
		{"not found", http.StatusNotFound, `{}`, forum.NotFound},
		{"conflict", http.StatusConflict, `{}`, forum.Conflict},
		{"bad request", http.StatusBadRequest, `{}`, forum.Validation},
		{"server error", http.StatusInternalServerError, `{}`, forum.NetworkFailure},
		{"no envelope", http.StatusOK, `[]`, forum.ProtocolViolation},
		{"unknown type", http.StatusOK, `{"data":[{"id":"` + uuid.NewString() + `","type":"poll"}]}`, forum.ProtocolViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewForumClient(srv.URL, "", time.Second, zaptest.NewLogger(t), nil)
			_, err := c.ListThreads(context.Background())

			require.Error(t, err)
			assert.Equal(t, tt.want, forum.KindOf(err))
		})
	}
}

func TestForumClient_ErrorMessageFromEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"Thread not found"},"message":"Thread not found"}`))
	}))
	defer srv.Close()

	c := NewForumClient(srv.URL, "", time.Second, nil, nil)
	_, err := c.GetThread(context.Background(), "gone")

	require.Error(t, err)
	assert.ErrorIs(t, err, forum.ErrNotFound)
	assert.Contains(t, err.Error(), "Thread not found")
}

func TestForumClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, nil)
	c := NewForumClient(url, "", time.Second, nil, m)

	_, err := c.ListTags(context.Background())

	assert.Equal(t, forum.NetworkFailure, forum.KindOf(err))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExternalAPIErrors))
}

func TestForumClient_SendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewForumClient(srv.URL+"/", "abc", time.Second, nil, nil)
	tags, err := c.ListTags(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Equal(t, "Bearer abc", got)
}

func TestForumClient_AgainstServer(t *testing.T) {
	srv := newForumServer(t)
	ctx := context.Background()
	aliceID := uuid.New()
	token := signToken(t, aliceID, "alice")

	c := NewForumClient(srv.URL+"/api/forum", token, 5*time.Second, zaptest.NewLogger(t), nil)

	tag, err := c.CreateTag(ctx, "Weather")
	require.NoError(t, err)
	assert.Equal(t, "weather", tag.Slug)

	_, err = c.CreateTag(ctx, "WEATHER")
	assert.ErrorIs(t, err, forum.ErrConflict)

	thread, err := c.CreateThread(ctx, forum.NewThread{
		Title:  "Rain in Spain",
		Body:   "<p>falls mainly on the plain</p>",
		Type:   forum.ThreadTypeDiscussion,
		TagIDs: []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, aliceID, thread.Author.ID)
	require.Len(t, thread.Tags, 1)

	vote, err := c.ToggleThreadVote(ctx, thread.Slug)
	require.NoError(t, err)
	assert.Equal(t, forum.VoteResult{Upvoted: true, Count: 1}, vote)

	root, err := c.CreateComment(ctx, forum.NewComment{ThreadID: thread.ID, Body: "first"})
	require.NoError(t, err)
	reply, err := c.CreateComment(ctx, forum.NewComment{ThreadID: thread.ID, ParentID: &root.ID, Body: "second"})
	require.NoError(t, err)

	comments, err := c.ListComments(ctx, thread.Slug)
	require.NoError(t, err)
	tree := forum.BuildCommentTree(comments)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].Comment.ID)

	edited, err := c.UpdateComment(ctx, reply.ID, "second, edited")
	require.NoError(t, err)
	assert.Equal(t, "second, edited", edited.Body)

	updated, err := c.UpdateThread(ctx, thread.Slug, forum.ThreadUpdate{
		Title: "Rain in Seville",
		Body:  thread.Body,
		Type:  forum.ThreadTypeResource,
	})
	require.NoError(t, err)
	assert.Equal(t, forum.ThreadTypeResource, updated.Type)
	assert.Empty(t, updated.Tags)

	got, err := c.GetThread(ctx, thread.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentCount)
}

func TestForumClient_DrivesLifecycle(t *testing.T) {
	srv := newForumServer(t)
	ctx := context.Background()
	token := signToken(t, uuid.New(), "alice")

	identity, err := NewTokenIdentity(token)
	require.NoError(t, err)
	c := NewForumClient(srv.URL+"/api/forum", token, 5*time.Second, nil, nil)
	lc := forum.NewThreadLifecycle(c, identity, zaptest.NewLogger(t))

	thread, err := lc.CreateThread(ctx, forum.ThreadDraft{
		Title:    "Tag soup",
		Body:     "<p>tags</p>",
		Type:     forum.ThreadTypeResource,
		TagNames: []string{"Go", "go", "Rust"},
	})
	require.NoError(t, err)
	assert.Len(t, thread.Tags, 2)

	tree, err := lc.LoadComments(ctx, thread.ID)
	require.NoError(t, err)
	assert.Empty(t, tree)

	_, err = lc.PostComment(ctx, thread.ID, "hello", nil)
	require.NoError(t, err)
	assert.Len(t, lc.CommentTree(thread.ID), 1)

	res, err := lc.ToggleVote(ctx, forum.ThreadTarget(thread.ID))
	require.NoError(t, err)
	assert.True(t, res.Upvoted)
}

func TestNewTokenIdentity(t *testing.T) {
	id := uuid.New()

	identity, err := NewTokenIdentity(signToken(t, id, "bob"))
	require.NoError(t, err)
	user, ok := identity.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, forum.Identity{ID: id, Username: "bob"}, user)

	anon, err := NewTokenIdentity("")
	require.NoError(t, err)
	_, ok = anon.CurrentUser()
	assert.False(t, ok)

	_, err = NewTokenIdentity("not-a-jwt")
	assert.Error(t, err)
}
