package search

import (
	"context"
	"time"

	"github.com/studystack/paperdex"
	"github.com/studystack/paperdex/log"
)

// Executor runs a search payload against the store. It first tries the
// ranked-search entry point; when that entry point reports itself unavailable
// (and only then) it falls back to a windowed raw fetch re-ranked client
// side. Any other store error is returned to the caller untouched.
type Executor struct {
	Index  paperdex.PaperIndex
	Store  paperdex.PaperStore
	Ranker *Ranker
	Logger log.Logger

	// WindowMultiplier sizes the fallback over-fetch,
	// DefaultWindowMultiplier when zero.
	WindowMultiplier int
}

func NewExecutor(index paperdex.PaperIndex, store paperdex.PaperStore, ranker *Ranker, logger log.Logger) *Executor {
	return &Executor{
		Index:  index,
		Store:  store,
		Ranker: ranker,
		Logger: logger,
	}
}

func (e *Executor) Execute(ctx context.Context, payload paperdex.SearchPayload) (paperdex.SearchResult, error) {
	start := time.Now()

	if payload.Page < 1 {
		payload.Page = 1
	}
	if payload.PageSize <= 0 {
		payload.PageSize = DefaultPageSize
	}

	matches, err := e.Index.Search(ctx, payload)
	if err != nil {
		if paperdex.IsUnavailable(err) {
			e.Logger.Printf("ranked search unavailable, using filtered fetch: %v", err)
			return e.fallback(ctx, payload, start)
		}
		return paperdex.SearchResult{}, err
	}

	papers, err := e.Store.Get(matches.IDs...)
	if err != nil {
		return paperdex.SearchResult{}, err
	}

	// rows arrive in the index's order, which is the server-side ranking
	res := paperdex.SearchResult{
		Papers: e.Ranker.Annotate(papers, payload),
		Total:  matches.Total,
	}
	res.HasMore = payload.Page*payload.PageSize < res.Total
	res.TookMs = time.Since(start).Milliseconds()
	return res, nil
}

func (e *Executor) fallback(ctx context.Context, payload paperdex.SearchPayload, start time.Time) (paperdex.SearchResult, error) {
	multiplier := e.WindowMultiplier
	if multiplier <= 0 {
		multiplier = DefaultWindowMultiplier
	}
	window := payload.PageSize * multiplier

	rows, count, err := e.Store.FetchWindow(ctx, payload, window)
	if err != nil {
		// terminal for this invocation, no further fallback
		return paperdex.SearchResult{TookMs: time.Since(start).Milliseconds()}, err
	}

	papers := make([]*paperdex.Paper, len(rows))
	for i, row := range rows {
		p := row.Resolve()
		papers[i] = &p
	}

	ranked := e.Ranker.Rank(papers, payload)
	if len(ranked) > payload.PageSize {
		ranked = ranked[:payload.PageSize]
	}

	res := paperdex.SearchResult{
		Papers: ranked,
		Total:  count,
	}
	res.HasMore = payload.Page*payload.PageSize < count
	res.TookMs = time.Since(start).Milliseconds()
	return res, nil
}
