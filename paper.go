package paperdex

import (
	"context"
	"time"
)

type Paper struct {
	ID         string  `json:"id"`
	Subject    string  `json:"subject"`
	FileName   string  `json:"fileName"`
	CourseCode string  `json:"courseCode,omitempty"`
	PaperType  string  `json:"paperType,omitempty"`
	Semester   int     `json:"semester,omitempty"`
	Year       int     `json:"year,omitempty"`
	Popularity float64 `json:"popularity"`
	FileFormat string  `json:"fileFormat,omitempty"`
	FileSize   int64   `json:"fileSize,omitempty"`

	Active bool `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RankingSignals holds the per-paper values the ranking comparator orders by.
type RankingSignals struct {
	CourseExact     bool    `json:"courseExact"`
	CoursePrefix    bool    `json:"coursePrefix"`
	SemesterMatch   bool    `json:"semesterMatch"`
	PaperTypeMatch  bool    `json:"paperTypeMatch"`
	SubjectScore    int     `json:"subjectScore"`
	PopularityScore float64 `json:"popularityScore"`
	RecencyScore    float64 `json:"recencyScore"`
}

type RankedPaper struct {
	Paper
	Signals RankingSignals `json:"signals"`
}

type SearchResult struct {
	Papers  []RankedPaper `json:"papers"`
	Total   int           `json:"total"`
	HasMore bool          `json:"hasMore"`
	TookMs  int64         `json:"tookMs"`
}

// SearchMatches is what the ranked-search entry point returns: paper ids in
// server ranking order plus the total number of matches.
type SearchMatches struct {
	IDs   []string
	Total int
}

type PaperStore interface {
	Get(ids ...string) ([]*Paper, error)
	List() ([]*Paper, error)
	Upsert(*Paper) error
	Delete(id string) error
	IncrementPopularity(id string, delta float64) error

	// FetchWindow is the generic filtered-fetch entry point used when ranked
	// search is unavailable. It applies the payload's facet predicates and
	// returns up to window raw rows starting at the payload's page offset,
	// along with the count of all matching rows.
	FetchWindow(ctx context.Context, payload SearchPayload, window int) ([]RawPaper, int, error)
}

type PaperIndex interface {
	Index(*Paper) error
	Delete(id string) error
	Search(ctx context.Context, payload SearchPayload) (SearchMatches, error)
}

type RecentView struct {
	PaperID  string    `json:"paperId"`
	FileName string    `json:"fileName"`
	Subject  string    `json:"subject"`
	ViewedAt time.Time `json:"viewedAt"`
}

type UserDataStore interface {
	Favorites(user string) ([]string, error)
	ToggleFavorite(user, paperID string) (bool, error)
	RecentViews(user string) ([]RecentView, error)
	AddRecentView(user string, view RecentView) error
	SearchHistory(user string) ([]string, error)
	AddSearchHistory(user, query string) error
}
