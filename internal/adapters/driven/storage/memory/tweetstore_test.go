package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

func TestTweetStoreAtomicity(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate in a batch stores nothing", func(t *testing.T) {
		store := NewTweetStore()
		require.NoError(t, store.SavePage(ctx, []domain.Tweet{{TweetID: "1"}}, nil, nil))

		err := store.SavePage(ctx,
			[]domain.Tweet{{TweetID: "2"}, {TweetID: "1"}}, nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		ok, err := store.Exists(ctx, "2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("repeated id within a batch is rejected", func(t *testing.T) {
		store := NewTweetStore()

		err := store.SavePage(ctx,
			[]domain.Tweet{{TweetID: "1"}, {TweetID: "1"}}, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("list clamps out-of-range offsets", func(t *testing.T) {
		store := NewTweetStore()
		require.NoError(t, store.SavePage(ctx,
			[]domain.Tweet{{TweetID: "1"}, {TweetID: "2"}}, nil, nil))

		items, err := store.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "2", items[0].TweetID)

		empty, err := store.List(ctx, 5, 10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
