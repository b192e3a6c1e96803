package dispatcher

import (
	"context"
	"testing"

	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_UnknownEvent(t *testing.T) {
	err := New().Dispatch(context.Background(), "deploy", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownEvent))
	assert.Contains(t, err.Error(), "unknown event type")
	assert.Equal(t, "deploy", errors.GetErrorDetails(err)["event"])
}

func TestDispatch_DefaultHasNoHandlers(t *testing.T) {
	assert.Empty(t, Default.Events())
	err := Default.Dispatch(context.Background(), "anything", []string{"x"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownEvent))
}

func TestDispatch_RegisteredHandler(t *testing.T) {
	d := New()
	var got []string
	d.Register("warm-cache", func(_ context.Context, args []string) error {
		got = args
		return nil
	})
	d.Register("purge", func(context.Context, []string) error { return nil })

	require.NoError(t, d.Dispatch(context.Background(), "warm-cache", []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, []EventType{"purge", "warm-cache"}, d.Events())
}
