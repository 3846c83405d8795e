package telegram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterDispatch(t *testing.T) {
	r := NewRouter(RouterConfig{})

	var handled string
	r.Register("profile", func(ctx context.Context, c CommandContext) error {
		handled = c.Args
		return nil
	})

	err := r.Dispatch(context.Background(), CommandContext{Command: "profile", Args: "args"})
	require.NoError(t, err)
	assert.Equal(t, "args", handled)
}

func TestRouterUnknownCommandFallsThrough(t *testing.T) {
	r := NewRouter(RouterConfig{})

	var fallback bool
	r.SetDefaultHandler(func(ctx context.Context, c CommandContext) error {
		fallback = true
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), CommandContext{Command: "nosuch"}))
	assert.True(t, fallback)
}

func TestRouterNoDefaultHandlerIsNoop(t *testing.T) {
	r := NewRouter(RouterConfig{})
	assert.NoError(t, r.Dispatch(context.Background(), CommandContext{Command: "nosuch"}))
}
