package search

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"github.com/kenmiya/gurume/internal/engine/hotpepper"
	"github.com/kenmiya/gurume/internal/model"
)

// pageSize is the fixed number of shops requested per fetch.
const pageSize = 20

// Fetcher is the one-page contract the paginator drives. *hotpepper.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchPage(ctx context.Context, coord model.Coordinate, params model.SearchParams, start, count int) (model.ResultPage, error)
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Params      model.SearchParams
	Shops       []model.Shop
	IsLoading   bool
	CanLoadMore bool
	ErrMessage  string // classified user-facing message, empty when none
	Available   int    // total matches reported by the API, 0 until known
}

// Paginator owns one search session at a time: the parameters, the
// accumulated shop list, and the incremental-fetch protocol. All state is
// mutex-serialized; the network call itself runs outside the lock, and a
// completion belonging to a superseded session is discarded.
type Paginator struct {
	fetcher Fetcher
	logger  *log.Logger

	mu            sync.Mutex
	session       uint64
	params        model.SearchParams
	shops         []model.Shop
	nextStart     int // 1-based offset of the next page
	lastRequested int // 0 = no request issued for nextStart
	loading       bool
	canLoadMore   bool
	errMessage    string
	available     int

	notify chan struct{}
}

func NewPaginator(fetcher Fetcher, logger *log.Logger) *Paginator {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &Paginator{
		fetcher:     fetcher,
		logger:      logger,
		nextStart:   1,
		canLoadMore: true,
		notify:      make(chan struct{}, 1),
	}
}

// Changes returns a coalescing channel that receives after every state
// mutation. Consumers read Snapshot() when woken.
func (p *Paginator) Changes() <-chan struct{} {
	return p.notify
}

// Snapshot copies the current session state.
func (p *Paginator) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	shops := make([]model.Shop, len(p.shops))
	copy(shops, p.shops)
	return Snapshot{
		Params:      p.params,
		Shops:       shops,
		IsLoading:   p.loading,
		CanLoadMore: p.canLoadMore,
		ErrMessage:  p.errMessage,
		Available:   p.available,
	}
}

// StartSearch discards any previous session and fetches the first page of a
// new one under the given parameters. It blocks until the first page
// resolves; an in-flight fetch from the old session is ignored when it
// lands.
func (p *Paginator) StartSearch(ctx context.Context, coord model.Coordinate, params model.SearchParams) {
	p.mu.Lock()
	p.session++
	p.params = params
	p.shops = nil
	p.nextStart = 1
	p.lastRequested = 0
	p.loading = false
	p.canLoadMore = true
	p.errMessage = ""
	p.available = 0
	p.mu.Unlock()
	p.publish()

	p.loadMore(ctx, coord)
}

// RequestMoreIfAtEnd fetches the next page, but only when shopID is the
// last accumulated shop. The UI calls this for every rendered row; the id
// comparison turns "cursor reached the bottom" into exactly one trigger.
func (p *Paginator) RequestMoreIfAtEnd(ctx context.Context, shopID string, coord model.Coordinate) {
	p.mu.Lock()
	if len(p.shops) == 0 || p.shops[len(p.shops)-1].ID != shopID {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.loadMore(ctx, coord)
}

// ClearError drops the stored error message without touching other state.
func (p *Paginator) ClearError() {
	p.mu.Lock()
	p.errMessage = ""
	p.mu.Unlock()
	p.publish()
}

// loadMore issues the next page fetch. Silent no-op unless all guards hold:
// nothing in flight, the session is not exhausted, and this offset has not
// already been requested (the UI may trigger several times for the same
// visible row).
func (p *Paginator) loadMore(ctx context.Context, coord model.Coordinate) {
	p.mu.Lock()
	if p.loading || !p.canLoadMore || p.nextStart == p.lastRequested {
		p.mu.Unlock()
		return
	}
	session := p.session
	start := p.nextStart
	params := p.params
	p.lastRequested = start
	p.loading = true
	p.errMessage = ""
	p.mu.Unlock()
	p.publish()

	page, err := p.fetcher.FetchPage(ctx, coord, params, start, pageSize)

	p.mu.Lock()
	if p.session != session {
		// A newer StartSearch owns the state now; this result is stale.
		p.mu.Unlock()
		p.logger.Debug().Int("start", start).Msg("discarding stale page")
		return
	}
	if err != nil {
		p.errMessage = hotpepper.Classify(err)
		// Nothing is in flight anymore, so release the offset guard: an
		// explicit later trigger may retry this same page.
		p.lastRequested = 0
		p.logger.Warn().Err(err).Int("start", start).Msg("page fetch failed")
	} else {
		p.shops = append(p.shops, page.Shops...)
		p.available = page.Available
		if page.Returned == 0 {
			p.canLoadMore = false
		} else {
			p.nextStart += page.Returned
		}
	}
	p.loading = false
	p.mu.Unlock()
	p.publish()
}

// publish pokes the notification channel without blocking; a pending wakeup
// already covers this change.
func (p *Paginator) publish() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}
