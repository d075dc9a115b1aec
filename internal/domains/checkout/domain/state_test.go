package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition_Table(t *testing.T) {
	allowed := []struct{ from, to State }{
		{StateInformation, StatePayment},
		{StatePayment, StateInformation},
		{StatePayment, StateReview},
		{StateReview, StatePayment},
		{StateReview, StateSubmitting},
		{StateSubmitting, StateSucceeded},
		{StateSubmitting, StateFailed},
		{StateFailed, StateReview},
	}
	for _, tc := range allowed {
		require.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to State }{
		{StateInformation, StateReview},
		{StateInformation, StateSubmitting},
		{StateReview, StateInformation},
		{StateSubmitting, StateReview},
		{StateSucceeded, StateReview},
		{StateSucceeded, StateInformation},
		{StateFailed, StateSubmitting},
	}
	for _, tc := range denied {
		require.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestNextAndPrevious(t *testing.T) {
	next, ok := StateInformation.Next()
	require.True(t, ok)
	require.Equal(t, StatePayment, next)

	next, ok = StatePayment.Next()
	require.True(t, ok)
	require.Equal(t, StateReview, next)

	_, ok = StateReview.Next()
	require.False(t, ok)

	prev, ok := StateReview.Previous()
	require.True(t, ok)
	require.Equal(t, StatePayment, prev)

	prev, ok = StatePayment.Previous()
	require.True(t, ok)
	require.Equal(t, StateInformation, prev)

	_, ok = StateInformation.Previous()
	require.False(t, ok)
}

func TestTerminal(t *testing.T) {
	require.True(t, StateSucceeded.Terminal())
	require.True(t, StateFailed.Terminal())
	require.False(t, StateSubmitting.Terminal())
	require.False(t, StateReview.Terminal())
}
