package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach_VisitsEveryItem(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []int
	)
	err := ForEach(context.Background(), 3, []int{1, 2, 3, 4, 5}, func(_ context.Context, n int) error {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
		return nil
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestForEach_BoundsConcurrency(t *testing.T) {
	var current, peak atomic.Int32

	err := ForEach(context.Background(), 2, make([]struct{}, 20), func(_ context.Context, _ struct{}) error {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		current.Add(-1)
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestForEach_ErrorSurfacesAfterJoin(t *testing.T) {
	var visited atomic.Int32
	boom := errors.New("boom")

	err := ForEach(context.Background(), 1, []int{1, 2, 3}, func(_ context.Context, n int) error {
		visited.Add(1)
		if n == 2 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
}

func TestMap_PreservesInputOrder(t *testing.T) {
	results, ok := Map(context.Background(), 4, []int{1, 2, 3, 4}, func(_ context.Context, n int) (int, error) {
		return n * 10, nil
	})

	assert.Equal(t, []int{10, 20, 30, 40}, results)
	assert.Equal(t, []bool{true, true, true, true}, ok)
}

func TestMap_FailedItemsReportNotOK(t *testing.T) {
	results, ok := Map(context.Background(), 2, []int{1, 2, 3}, func(_ context.Context, n int) (string, error) {
		if n == 2 {
			return "", errors.New("item failed")
		}
		return "ok", nil
	})

	assert.Equal(t, []string{"ok", "", "ok"}, results)
	assert.Equal(t, []bool{true, false, true}, ok)
}

func TestMap_EmptyInput(t *testing.T) {
	results, ok := Map(context.Background(), 2, nil, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	assert.Empty(t, results)
	assert.Empty(t, ok)
}
