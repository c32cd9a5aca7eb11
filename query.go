package paperdex

// SearchContext is the structured view of a free-text query: the facets that
// could be extracted from it and what remains once they are stripped.
type SearchContext struct {
	Raw     string `json:"raw"`
	Cleaned string `json:"cleaned"`

	CourseCodes   []string `json:"courseCodes"`
	Semesters     []int    `json:"semesters"`
	PaperTypes    []string `json:"paperTypes"`
	SubjectTokens []string `json:"subjectTokens"`
}

// SearchFilters are the facet selections a search runs with, either picked in
// the filter UI or inferred from the query text. All values are canonical:
// course codes uppercased and stripped, semesters in 1..12, paper types
// mapped through the synonym table, subjects lowercased.
type SearchFilters struct {
	Subjects    []string `json:"subjects"`
	CourseCodes []string `json:"courseCodes"`
	Semesters   []int    `json:"semesters"`
	PaperTypes  []string `json:"paperTypes"`
}

func (f SearchFilters) Empty() bool {
	return len(f.Subjects) == 0 &&
		len(f.CourseCodes) == 0 &&
		len(f.Semesters) == 0 &&
		len(f.PaperTypes) == 0
}

// SearchPayload is a fully normalized query execution request. It is derived
// from the current filter selections and query text only; building it has no
// side effects.
type SearchPayload struct {
	Query    string        `json:"query"`
	Filters  SearchFilters `json:"filters"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// From returns the zero-based offset of the payload's page.
func (p SearchPayload) From() int {
	from := (p.Page - 1) * p.PageSize
	if from < 0 {
		return 0
	}
	return from
}
