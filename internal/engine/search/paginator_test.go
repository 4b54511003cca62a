package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenmiya/gurume/internal/engine/hotpepper"
	"github.com/kenmiya/gurume/internal/model"
)

// fakeFetcher serves scripted pages keyed by start offset and records every
// call. An optional gate blocks fetches until released, to simulate a slow
// network.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[int]model.ResultPage
	errAt map[int]error
	calls []int
	gate  chan struct{}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, coord model.Coordinate, params model.SearchParams, start, count int) (model.ResultPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, start)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errAt[start]; ok {
		delete(f.errAt, start)
		return model.ResultPage{}, err
	}
	page, ok := f.pages[start]
	if !ok {
		return model.ResultPage{Start: start}, nil
	}
	return page, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func genShops(start, n int) []model.Shop {
	shops := make([]model.Shop, n)
	for i := range shops {
		shops[i] = model.Shop{
			ID:   fmt.Sprintf("J%04d", start+i),
			Name: fmt.Sprintf("Shop %d", start+i),
		}
	}
	return shops
}

func pageAt(start, n, available int) model.ResultPage {
	return model.ResultPage{Shops: genShops(start, n), Start: start, Returned: n, Available: available}
}

func lastID(s Snapshot) string {
	return s.Shops[len(s.Shops)-1].ID
}

var testCoord = model.Coordinate{Lat: 35.0, Lng: 139.0}

func TestThreePageScenario(t *testing.T) {
	// 20 items, then 5, then 0: accumulate 25 and stop permanently.
	fetcher := &fakeFetcher{pages: map[int]model.ResultPage{
		1:  pageAt(1, 20, 25),
		21: pageAt(21, 5, 25),
		26: pageAt(26, 0, 25),
	}}
	p := NewPaginator(fetcher, nil)

	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})
	snap := p.Snapshot()
	require.Len(t, snap.Shops, 20)
	assert.True(t, snap.CanLoadMore)
	assert.False(t, snap.IsLoading)

	p.RequestMoreIfAtEnd(context.Background(), lastID(snap), testCoord)
	snap = p.Snapshot()
	require.Len(t, snap.Shops, 25)
	assert.True(t, snap.CanLoadMore)

	p.RequestMoreIfAtEnd(context.Background(), lastID(snap), testCoord)
	snap = p.Snapshot()
	assert.Len(t, snap.Shops, 25)
	assert.False(t, snap.CanLoadMore)
	assert.Empty(t, snap.ErrMessage)

	// Exhausted sessions never fetch again.
	p.RequestMoreIfAtEnd(context.Background(), lastID(snap), testCoord)
	assert.Equal(t, []int{1, 21, 26}, fetcher.calls)
}

func TestRequestMoreIgnoresNonLastShop(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]model.ResultPage{1: pageAt(1, 20, 40)}}
	p := NewPaginator(fetcher, nil)
	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})

	p.RequestMoreIfAtEnd(context.Background(), "J0001", testCoord) // first row, not last
	p.RequestMoreIfAtEnd(context.Background(), "nonexistent", testCoord)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestNoDuplicateInFlightFetch(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeFetcher{
		pages: map[int]model.ResultPage{1: pageAt(1, 20, 40), 21: pageAt(21, 20, 40)},
	}
	p := NewPaginator(fetcher, nil)
	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})

	last := lastID(p.Snapshot())
	fetcher.mu.Lock()
	fetcher.gate = gate
	fetcher.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.RequestMoreIfAtEnd(context.Background(), last, testCoord)
	}()

	// Wait until the first trigger is actually in flight.
	require.Eventually(t, func() bool {
		return p.Snapshot().IsLoading
	}, time.Second, time.Millisecond)

	// Rapid re-trigger for the same visible row must be suppressed.
	p.RequestMoreIfAtEnd(context.Background(), last, testCoord)

	close(gate)
	wg.Wait()

	assert.Equal(t, []int{1, 21}, fetcher.calls)
	assert.Len(t, p.Snapshot().Shops, 40)
}

func TestStartSearchResetsSession(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]model.ResultPage{1: pageAt(1, 20, 99)}}
	p := NewPaginator(fetcher, nil)

	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})
	snap := p.Snapshot()
	require.Len(t, snap.Shops, 20)
	p.RequestMoreIfAtEnd(context.Background(), lastID(snap), testCoord)
	require.Len(t, p.Snapshot().Shops, 20) // offset 21 returns empty page

	fetcher.mu.Lock()
	fetcher.pages[1] = pageAt(1, 3, 3)
	fetcher.mu.Unlock()

	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 1, Keyword: "ramen"})
	snap = p.Snapshot()
	assert.Len(t, snap.Shops, 3)
	assert.Equal(t, "ramen", snap.Params.Keyword)
	assert.Empty(t, snap.ErrMessage)
}

func TestFailedPageIsRetryableAtSameOffset(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[int]model.ResultPage{1: pageAt(1, 20, 25), 21: pageAt(21, 5, 25)},
		errAt: map[int]error{21: &hotpepper.HTTPStatusError{Code: 503}},
	}
	p := NewPaginator(fetcher, nil)
	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})
	last := lastID(p.Snapshot())

	p.RequestMoreIfAtEnd(context.Background(), last, testCoord)
	snap := p.Snapshot()
	assert.Len(t, snap.Shops, 20, "failed page must not corrupt accumulated results")
	assert.True(t, snap.CanLoadMore)
	assert.NotEmpty(t, snap.ErrMessage)

	// Same trigger again: the offset guard was released on failure, so the
	// identical page is fetched once more and now succeeds.
	p.RequestMoreIfAtEnd(context.Background(), last, testCoord)
	snap = p.Snapshot()
	assert.Len(t, snap.Shops, 25)
	assert.Empty(t, snap.ErrMessage)
	assert.Equal(t, []int{1, 21, 21}, fetcher.calls)
}

func TestClearError(t *testing.T) {
	fetcher := &fakeFetcher{errAt: map[int]error{1: &hotpepper.HTTPStatusError{Code: 500}}}
	p := NewPaginator(fetcher, nil)
	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})

	require.NotEmpty(t, p.Snapshot().ErrMessage)
	p.ClearError()
	snap := p.Snapshot()
	assert.Empty(t, snap.ErrMessage)
	assert.True(t, snap.CanLoadMore)
}

func TestStaleResponseDiscardedAfterNewSession(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeFetcher{
		pages: map[int]model.ResultPage{1: pageAt(1, 20, 20)},
		gate:  gate,
	}
	p := NewPaginator(fetcher, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 3})
	}()

	require.Eventually(t, func() bool {
		return fetcher.callCount() == 1
	}, time.Second, time.Millisecond)

	// New session begins while the first fetch is still in flight.
	fetcher.mu.Lock()
	fetcher.gate = nil
	fetcher.pages[1] = pageAt(1, 2, 2)
	fetcher.mu.Unlock()
	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 5, Keyword: "cafe"})

	snap := p.Snapshot()
	require.Len(t, snap.Shops, 2)

	// Release the stale fetch; its 20 shops must not leak into the new session.
	close(gate)
	wg.Wait()

	snap = p.Snapshot()
	assert.Len(t, snap.Shops, 2)
	assert.Equal(t, "cafe", snap.Params.Keyword)
	assert.False(t, snap.IsLoading)
}

func TestChangesChannelSignalsMutations(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int]model.ResultPage{1: pageAt(1, 5, 5)}}
	p := NewPaginator(fetcher, nil)

	p.StartSearch(context.Background(), testCoord, model.SearchParams{Range: 2})

	select {
	case <-p.Changes():
	default:
		t.Fatal("expected a pending change notification")
	}
}
