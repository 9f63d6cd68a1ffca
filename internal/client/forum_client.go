package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forum-service/internal/dto"
	"forum-service/internal/forum"
	"forum-service/internal/metrics"
	"forum-service/internal/response"
)

// ForumClient talks to the forum REST API and implements forum.Authority
type ForumClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

var _ forum.Authority = (*ForumClient)(nil)

// NewForumClient creates a client for the API rooted at baseURL, for example
// http://localhost:8000/api/forum. token may be empty for read-only use.
func NewForumClient(baseURL, token string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *ForumClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForumClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

func (c *ForumClient) ListThreads(ctx context.Context) ([]forum.Thread, error) {
	var resp []dto.ThreadResponse
	if err := c.do(ctx, "list threads", http.MethodGet, "/threads", nil, &resp); err != nil {
		return nil, err
	}
	threads := make([]forum.Thread, 0, len(resp))
	for i := range resp {
		thread, err := toThread(&resp[i])
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func (c *ForumClient) GetThread(ctx context.Context, slug string) (forum.Thread, error) {
	var resp dto.ThreadResponse
	if err := c.do(ctx, "get thread", http.MethodGet, "/threads/"+url.PathEscape(slug), nil, &resp); err != nil {
		return forum.Thread{}, err
	}
	return toThread(&resp)
}

func (c *ForumClient) ListComments(ctx context.Context, threadSlug string) ([]forum.Comment, error) {
	var resp []dto.CommentResponse
	path := "/threads/" + url.PathEscape(threadSlug) + "/comments"
	if err := c.do(ctx, "list comments", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	comments := make([]forum.Comment, 0, len(resp))
	for i := range resp {
		comments = append(comments, toComment(&resp[i]))
	}
	return comments, nil
}

func (c *ForumClient) CreateThread(ctx context.Context, payload forum.NewThread) (forum.Thread, error) {
	req := dto.CreateThreadRequest{
		Title:   payload.Title,
		Content: payload.Body,
		Type:    string(payload.Type),
		TagIDs:  payload.TagIDs,
	}
	var resp dto.ThreadResponse
	if err := c.do(ctx, "create thread", http.MethodPost, "/threads", req, &resp); err != nil {
		return forum.Thread{}, err
	}
	return toThread(&resp)
}

func (c *ForumClient) UpdateThread(ctx context.Context, slug string, payload forum.ThreadUpdate) (forum.Thread, error) {
	threadType := string(payload.Type)
	tagIDs := payload.TagIDs
	if tagIDs == nil {
		tagIDs = []uuid.UUID{}
	}
	req := dto.UpdateThreadRequest{
		Title:   &payload.Title,
		Content: &payload.Body,
		Type:    &threadType,
		TagIDs:  &tagIDs,
	}
	var resp dto.ThreadResponse
	if err := c.do(ctx, "update thread", http.MethodPatch, "/threads/"+url.PathEscape(slug), req, &resp); err != nil {
		return forum.Thread{}, err
	}
	return toThread(&resp)
}

func (c *ForumClient) CreateComment(ctx context.Context, payload forum.NewComment) (forum.Comment, error) {
	req := dto.CreateCommentRequest{
		ThreadID:        payload.ThreadID,
		Content:         payload.Body,
		ParentCommentID: payload.ParentID,
	}
	var resp dto.CommentResponse
	if err := c.do(ctx, "create comment", http.MethodPost, "/comments", req, &resp); err != nil {
		return forum.Comment{}, err
	}
	return toComment(&resp), nil
}

func (c *ForumClient) UpdateComment(ctx context.Context, id uuid.UUID, body string) (forum.Comment, error) {
	req := dto.UpdateCommentRequest{Content: body}
	var resp dto.CommentResponse
	if err := c.do(ctx, "update comment", http.MethodPatch, "/comments/"+id.String(), req, &resp); err != nil {
		return forum.Comment{}, err
	}
	return toComment(&resp), nil
}

func (c *ForumClient) ToggleThreadVote(ctx context.Context, slug string) (forum.VoteResult, error) {
	var resp dto.VoteResponse
	if err := c.do(ctx, "toggle thread vote", http.MethodPost, "/threads/"+url.PathEscape(slug)+"/upvote", nil, &resp); err != nil {
		return forum.VoteResult{}, err
	}
	return forum.VoteResult{Upvoted: resp.Upvoted, Count: resp.Count}, nil
}

func (c *ForumClient) ToggleCommentVote(ctx context.Context, id uuid.UUID) (forum.VoteResult, error) {
	var resp dto.VoteResponse
	if err := c.do(ctx, "toggle comment vote", http.MethodPost, "/comments/"+id.String()+"/upvote", nil, &resp); err != nil {
		return forum.VoteResult{}, err
	}
	return forum.VoteResult{Upvoted: resp.Upvoted, Count: resp.Count}, nil
}

func (c *ForumClient) ListTags(ctx context.Context) ([]forum.Tag, error) {
	var resp []dto.TagResponse
	if err := c.do(ctx, "list tags", http.MethodGet, "/tags", nil, &resp); err != nil {
		return nil, err
	}
	tags := make([]forum.Tag, 0, len(resp))
	for _, t := range resp {
		tags = append(tags, forum.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return tags, nil
}

func (c *ForumClient) CreateTag(ctx context.Context, name string) (forum.Tag, error) {
	var resp dto.TagResponse
	if err := c.do(ctx, "create tag", http.MethodPost, "/tags", dto.CreateTagRequest{Name: name}, &resp); err != nil {
		return forum.Tag{}, err
	}
	return forum.Tag{ID: resp.ID, Name: resp.Name, Slug: resp.Slug}, nil
}

// do sends one request and decodes the data envelope into out. Failures are
// returned as *forum.Error.
func (c *ForumClient) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return forum.NewError(forum.Validation, op, fmt.Errorf("failed to marshal request: %w", err))
		}
		reader = bytes.NewReader(jsonBody)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return forum.NewError(forum.NetworkFailure, op, fmt.Errorf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, method, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Warn("Forum API request failed",
			zap.String("op", op),
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return forum.NewError(forum.NetworkFailure, op, ctxErr)
		}
		return forum.NewError(forum.NetworkFailure, op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return forum.NewError(forum.NetworkFailure, op, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("Forum API returned non-success status",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode),
		)
		return forum.NewError(kindForStatus(resp.StatusCode), op, errors.New(errorMessage(resp.StatusCode, payload)))
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || len(envelope.Data) == 0 {
		return forum.NewError(forum.ProtocolViolation, op, errors.New("response has no data envelope"))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return forum.NewError(forum.ProtocolViolation, op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func kindForStatus(status int) forum.Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return forum.Unauthorized
	case http.StatusNotFound:
		return forum.NotFound
	case http.StatusConflict:
		return forum.Conflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return forum.Validation
	default:
		return forum.NetworkFailure
	}
}

func errorMessage(status int, payload []byte) string {
	var body response.ErrorResponse
	if err := json.Unmarshal(payload, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return fmt.Sprintf("unexpected status %d", status)
}

func toThread(r *dto.ThreadResponse) (forum.Thread, error) {
	threadType := forum.ThreadType(r.Type)
	if !threadType.Valid() {
		return forum.Thread{}, forum.NewError(forum.ProtocolViolation, "decode thread", fmt.Errorf("unknown thread type %q", r.Type))
	}
	tags := make([]forum.Tag, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, forum.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return forum.Thread{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Body:           r.Content,
		Type:           threadType,
		Author:         forum.Identity{ID: r.Author.ID, Username: r.Author.Username},
		Tags:           tags,
		CreatedAt:      r.CreatedAt,
		LastActivityAt: r.LastActivityAt,
		UpvoteCount:    r.UpvoteCount,
		UpvotedBy:      r.UpvotedBy,
		CommentCount:   r.CommentCount,
	}, nil
}

func toComment(r *dto.CommentResponse) forum.Comment {
	return forum.Comment{
		ID:          r.ID,
		ThreadID:    r.ThreadID,
		ParentID:    r.ParentCommentID,
		Body:        r.Content,
		Author:      forum.Identity{ID: r.Author.ID, Username: r.Author.Username},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		UpvoteCount: r.UpvoteCount,
		UpvotedBy:   r.UpvotedBy,
	}
}
