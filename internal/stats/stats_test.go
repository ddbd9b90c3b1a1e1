package stats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceGet(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	live, ok := NewService(Static(Demo), log).Get(context.Background())
	assert.True(t, ok)
	assert.Equal(t, Demo, live)

	failing := SourceFunc(func(context.Context) (Statistics, error) {
		return Statistics{}, errors.New("firestore unavailable")
	})
	fallback, ok := NewService(failing, log).Get(context.Background())
	assert.False(t, ok)
	assert.Equal(t, Fallback, fallback)
}
