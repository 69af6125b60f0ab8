package reqid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok, "unexpected id in empty context")
}

func TestNestedContextReplacesID(t *testing.T) {
	outer, outerID := NewContext(context.Background())
	inner, innerID := NewContext(outer)

	got, _ := FromContext(inner)
	assert.Equal(t, innerID, got)
	got, _ = FromContext(outer)
	assert.Equal(t, outerID, got)
}
