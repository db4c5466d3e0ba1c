// Package kvtest holds the behaviour every repository.KV adapter must share.
package kvtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/repository"
)

// Run exercises kv against the repository.KV contract
func Run(t *testing.T, kv repository.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "search-history", []byte(`{"version":1}`)))
		got, err := kv.Get(ctx, "search-history")
		require.NoError(t, err)
		assert.Equal(t, `{"version":1}`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "saved-searches", []byte("one")))
		require.NoError(t, kv.Set(ctx, "saved-searches", []byte("two")))
		got, err := kv.Get(ctx, "saved-searches")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "copy", []byte("abc")))
		got, err := kv.Get(ctx, "copy")
		require.NoError(t, err)
		got[0] = 'z'
		again, err := kv.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "user-preference:search_filters", []byte("{}")))
		require.NoError(t, kv.Delete(ctx, "user-preference:search_filters"))
		_, err := kv.Get(ctx, "user-preference:search_filters")
		assert.True(t, errors.Is(err, repository.ErrNotFound))

		assert.NoError(t, kv.Delete(ctx, "never-existed"))
	})

	t.Run("namespaced keys are independent", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "alice:filter-presets", []byte("a")))
		require.NoError(t, kv.Set(ctx, "bob:filter-presets", []byte("b")))
		a, err := kv.Get(ctx, "alice:filter-presets")
		require.NoError(t, err)
		b, err := kv.Get(ctx, "bob:filter-presets")
		require.NoError(t, err)
		assert.Equal(t, "a", string(a))
		assert.Equal(t, "b", string(b))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, kv.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}))
			}(i)
		}
		wg.Wait()
		for i := 0; i < 8; i++ {
			got, err := kv.Get(ctx, fmt.Sprintf("k%d", i))
			require.NoError(t, err)
			assert.Equal(t, []byte{byte(i)}, got)
		}
	})
}
