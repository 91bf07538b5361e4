package reqmeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_RoundTrip(t *testing.T) {
	m := Meta{Route: "/auth/login", Method: "POST", UserAgent: "curl/8.0", IP: "10.0.0.1"}
	ctx := NewContext(context.Background(), m)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestFromContext_Empty(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestArgs(t *testing.T) {
	ctx := NewContext(context.Background(), Meta{Route: "/auth/refresh", Method: "POST"})
	args := Args(ctx)
	require.Len(t, args, 8)
	assert.Equal(t, "route", args[0])
	assert.Equal(t, "/auth/refresh", args[1])

	assert.Nil(t, Args(context.Background()))
}
