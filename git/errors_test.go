package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	wrapped := WrapError(ErrResolveFailed, "resolving triggering ref")

	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrResolveFailed))
	assert.Equal(t, "resolving triggering ref: cannot resolve revision", wrapped.Error())
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestWrapErrorf(t *testing.T) {
	wrapped := WrapErrorf(ErrTagExists, "tag %q", "v2.3.0")

	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrTagExists))
	assert.Equal(t, `tag "v2.3.0": tag already exists`, wrapped.Error())
}

func TestWrapError_Nested(t *testing.T) {
	inner := WrapError(ErrCheckoutFailed, "pinning worktree")
	outer := WrapError(inner, "checkout step")

	assert.True(t, errors.Is(outer, ErrCheckoutFailed))
}
