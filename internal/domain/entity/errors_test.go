package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComparisonError_KindAndUnwrap(t *testing.T) {
	err := NewError(KindInsufficientMatches, "align", fmt.Errorf("%w: got 2", ErrInsufficientMatches))
	wrapped := fmt.Errorf("page 3: %w", err)

	require.Equal(t, KindInsufficientMatches, KindOf(wrapped))
	require.ErrorIs(t, wrapped, ErrInsufficientMatches)
	require.True(t, Retryable(wrapped))
	require.Equal(t, "insufficient_matches: align: not enough feature correspondences: got 2", err.Error())
}

func TestKindOf_Unknown(t *testing.T) {
	require.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	require.False(t, Retryable(errors.New("boom")))
	require.False(t, Retryable(NewError(KindDecode, "", errors.New("bad png"))))
	require.Equal(t, "decode: bad png", NewError(KindDecode, "", errors.New("bad png")).Error())
}
