// Package mock provides in-memory store and index implementations for tests.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/studystack/paperdex"
)

// PaperStore is an in-memory paperdex.PaperStore. Rows keep insertion order
// so window fetches are deterministic.
type PaperStore struct {
	mu   sync.Mutex
	ids  []string
	rows map[string]paperdex.RawPaper

	nextID int

	// FetchErr, when set, is returned by FetchWindow. FetchCalls records
	// every window fetch for assertions.
	FetchErr   error
	FetchCalls []FetchCall
}

func (s *PaperStore) init() {
	if s.rows == nil {
		s.rows = make(map[string]paperdex.RawPaper)
	}
}

func (s *PaperStore) Get(ids ...string) ([]*paperdex.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	papers := make([]*paperdex.Paper, 0, len(ids))
	for _, id := range ids {
		raw, ok := s.rows[id]
		if !ok {
			continue
		}
		paper := raw.Resolve()
		papers = append(papers, &paper)
	}
	return papers, nil
}

func (s *PaperStore) List() ([]*paperdex.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	papers := make([]*paperdex.Paper, 0, len(s.ids))
	for _, id := range s.ids {
		paper := s.rows[id].Resolve()
		papers = append(papers, &paper)
	}
	return papers, nil
}

func (s *PaperStore) Upsert(paper *paperdex.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	if paper.ID == "" {
		s.nextID++
		paper.ID = fmt.Sprintf("paper-%04d", s.nextID)
		paper.CreatedAt = time.Now()
	}
	paper.UpdatedAt = time.Now()

	return s.putRaw(paperdex.RawFromPaper(paper))
}

// ImportRaw mirrors the bolt store's raw-row import used by tests that need
// legacy column shapes.
func (s *PaperStore) ImportRaw(raw paperdex.RawPaper) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	if raw.ID == "" {
		s.nextID++
		raw.ID = fmt.Sprintf("paper-%04d", s.nextID)
	}
	if err := s.putRaw(raw); err != nil {
		return "", err
	}
	return raw.ID, nil
}

func (s *PaperStore) putRaw(raw paperdex.RawPaper) error {
	if _, ok := s.rows[raw.ID]; !ok {
		s.ids = append(s.ids, raw.ID)
	}
	s.rows[raw.ID] = raw
	return nil
}

func (s *PaperStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	delete(s.rows, id)
	for i, known := range s.ids {
		if known == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *PaperStore) IncrementPopularity(id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	raw, ok := s.rows[id]
	if !ok {
		return &paperdex.StoreError{Kind: paperdex.StoreNotFound, Op: "mock.popularity"}
	}
	pop := raw.Resolve().Popularity + delta
	raw.Popularity = &pop
	s.rows[id] = raw
	return nil
}

// FetchCall records one FetchWindow invocation.
type FetchCall struct {
	Payload paperdex.SearchPayload
	Window  int
}

// FetchWindow applies only the free-text predicate, which is enough for
// orchestration tests; full predicate coverage lives with the bolt store.
func (s *PaperStore) FetchWindow(ctx context.Context, payload paperdex.SearchPayload, window int) ([]paperdex.RawPaper, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	s.FetchCalls = append(s.FetchCalls, FetchCall{Payload: payload, Window: window})
	if s.FetchErr != nil {
		return nil, 0, s.FetchErr
	}

	q := strings.ToLower(strings.TrimSpace(payload.Query))
	var matched []paperdex.RawPaper
	for _, id := range s.ids {
		raw := s.rows[id]
		if q != "" && !strings.Contains(strings.ToLower(raw.Subject+" "+raw.FileName+" "+raw.Title), q) {
			continue
		}
		matched = append(matched, raw)
	}

	count := len(matched)
	from := payload.From()
	if from > count {
		from = count
	}
	to := from + window
	if to > count {
		to = count
	}
	return matched[from:to], count, nil
}

var _ paperdex.PaperStore = (*PaperStore)(nil)

// PaperIndex is an in-memory paperdex.PaperIndex whose behavior is scripted
// by tests: set Err to fail searches, or leave it nil to serve Matches.
type PaperIndex struct {
	Err     error
	Matches paperdex.SearchMatches

	Indexed []string
	Deleted []string
}

// Index mirrors the bleve index's membership rule: inactive papers are
// removed rather than added.
func (i *PaperIndex) Index(paper *paperdex.Paper) error {
	if !paper.Active {
		i.Deleted = append(i.Deleted, paper.ID)
		return nil
	}
	i.Indexed = append(i.Indexed, paper.ID)
	return nil
}

func (i *PaperIndex) Delete(id string) error {
	i.Deleted = append(i.Deleted, id)
	return nil
}

func (i *PaperIndex) Search(ctx context.Context, payload paperdex.SearchPayload) (paperdex.SearchMatches, error) {
	if i.Err != nil {
		return paperdex.SearchMatches{}, i.Err
	}
	return i.Matches, nil
}

var _ paperdex.PaperIndex = (*PaperIndex)(nil)
