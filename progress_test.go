package rriharvest_test

import (
	"testing"

	"github.com/fwojciec/rriharvest"
	"github.com/stretchr/testify/assert"
)

func TestProgressState(t *testing.T) {
	t.Parallel()

	t.Run("visited and failed are disjoint", func(t *testing.T) {
		t.Parallel()

		p := rriharvest.NewProgressState()
		p.MarkFailed("a")
		p.MarkVisited("a")

		assert.True(t, p.IsVisited("a"))
		assert.False(t, p.IsFailed("a"))
		assert.Equal(t, 1, p.VisitedCount())
		assert.Equal(t, 0, p.FailedCount())
	})

	t.Run("never downgrades a visited URL", func(t *testing.T) {
		t.Parallel()

		p := rriharvest.NewProgressState()
		p.MarkVisited("a")
		p.MarkFailed("a")

		assert.True(t, p.IsVisited("a"))
		assert.False(t, p.IsFailed("a"))
	})

	t.Run("seen covers visited and failed", func(t *testing.T) {
		t.Parallel()

		p := rriharvest.NewProgressState()
		p.MarkVisited("a")
		p.MarkFailed("b")

		assert.True(t, p.Seen("a"))
		assert.True(t, p.Seen("b"))
		assert.False(t, p.Seen("c"))
	})

	t.Run("clear failed forgets only failures", func(t *testing.T) {
		t.Parallel()

		p := rriharvest.NewProgressState()
		p.MarkVisited("a")
		p.MarkFailed("b")
		p.MarkFailed("c")

		assert.Equal(t, 2, p.ClearFailed())
		assert.False(t, p.Seen("b"))
		assert.True(t, p.IsVisited("a"))
		assert.Equal(t, 0, p.ClearFailed())
	})

	t.Run("lists URLs sorted", func(t *testing.T) {
		t.Parallel()

		p := rriharvest.NewProgressState()
		p.MarkVisited("c")
		p.MarkVisited("a")
		p.MarkFailed("z")
		p.MarkFailed("m")

		assert.Equal(t, []string{"a", "c"}, p.Visited())
		assert.Equal(t, []string{"m", "z"}, p.Failed())
	})

	t.Run("empty state lists nothing", func(t *testing.T) {
		t.Parallel()

		p := rriharvest.NewProgressState()

		assert.Empty(t, p.Visited())
		assert.Empty(t, p.Failed())
	})
}
