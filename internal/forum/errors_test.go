package forum

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", NewError(NotFound, "get thread", cause))

	assert.Equal(t, NotFound, KindOf(err))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "outer: get thread: not found: boom", err.Error())
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("op", nil))

	err := wrap("list threads", context.Canceled)
	assert.Equal(t, NetworkFailure, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)

	typed := NewError(Conflict, "", nil)
	assert.Equal(t, "create tag: conflict", wrap("create tag", typed).Error())

	named := NewError(Busy, "toggle", nil)
	assert.Same(t, named, wrap("other", named))
}
