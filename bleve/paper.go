package bleve

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/studystack/paperdex"
)

// PaperIndex is the ranked-search entry point. Facet selections contribute
// boosted should-clauses so matching papers score higher without excluding
// the rest of the text matches; the index's score order is the server-side
// ranking. A PaperIndex that was never opened reports StoreUnavailable,
// which is what pushes the executor onto its fallback path.
type PaperIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it when it does not exist yet.
func (s *PaperIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		index, err = bleve.New(path, paperMapping())
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *PaperIndex) Close() error {
	if s.index == nil {
		return nil
	}
	return s.index.Close()
}

// Index adds an active paper to the index. Inactive papers are removed
// instead, so the ranked tier and the filtered-fetch tier agree on which
// papers exist.
func (s *PaperIndex) Index(paper *paperdex.Paper) error {
	if s.index == nil {
		return s.unavailable("bleve.index")
	}

	if !paper.Active {
		return s.index.Delete(paper.ID)
	}

	data := map[string]interface{}{
		"subject":    paper.Subject,
		"fileName":   paper.FileName,
		"courseCode": paperdex.NormalizeCourseCode(paper.CourseCode),
		"paperType":  strings.ToLower(paperdex.CanonicalPaperType(paper.PaperType)),
		"semester":   strconv.Itoa(paper.Semester),
		"year":       paper.Year,
		"popularity": paper.Popularity,
		"createdAt":  paper.CreatedAt,
	}

	return s.index.Index(paper.ID, data)
}

func (s *PaperIndex) Delete(id string) error {
	if s.index == nil {
		return s.unavailable("bleve.delete")
	}
	return s.index.Delete(id)
}

func (s *PaperIndex) Search(ctx context.Context, payload paperdex.SearchPayload) (paperdex.SearchMatches, error) {
	if s.index == nil {
		return paperdex.SearchMatches{}, s.unavailable("bleve.search")
	}

	searchRequest := bleve.NewSearchRequest(s.buildQuery(payload))
	searchRequest.Size = payload.PageSize
	searchRequest.From = payload.From()

	searchResults, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return paperdex.SearchMatches{}, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bleve.search", Err: err}
	}

	ids := make([]string, len(searchResults.Hits))
	for i, hit := range searchResults.Hits {
		ids[i] = hit.ID
	}

	return paperdex.SearchMatches{IDs: ids, Total: int(searchResults.Total)}, nil
}

func (s *PaperIndex) unavailable(op string) error {
	return &paperdex.StoreError{Kind: paperdex.StoreUnavailable, Op: op, Err: errors.New("index not open")}
}

func (s *PaperIndex) buildQuery(payload paperdex.SearchPayload) query.Query {
	boolean := bleve.NewBooleanQuery()

	if text := s.textQuery(payload.Query); text != nil {
		boolean.AddMust(text)
	} else {
		boolean.AddMust(query.NewMatchAllQuery())
	}

	for _, code := range payload.Filters.CourseCodes {
		exact := &query.TermQuery{Term: code, FieldVal: "courseCode"}
		exact.SetBoost(5)
		boolean.AddShould(exact)

		prefix := &query.PrefixQuery{Prefix: code, FieldVal: "courseCode"}
		prefix.SetBoost(3)
		boolean.AddShould(prefix)
	}

	for _, sem := range payload.Filters.Semesters {
		q := &query.TermQuery{Term: strconv.Itoa(sem), FieldVal: "semester"}
		q.SetBoost(2)
		boolean.AddShould(q)
	}

	for _, t := range payload.Filters.PaperTypes {
		q := &query.TermQuery{Term: strings.ToLower(paperdex.CanonicalPaperType(t)), FieldVal: "paperType"}
		q.SetBoost(2)
		boolean.AddShould(q)
	}

	return boolean
}

func (s *PaperIndex) textQuery(text string) query.Query {
	words := strings.Fields(text)

	ands := make([]query.Query, 0, len(words))
	for _, word := range words {
		q := orQ(
			s.prefixQuery(word, "subject"),
			s.prefixQuery(word, "fileName"),
		)
		if q != nil {
			ands = append(ands, q)
		}
	}

	return andQ(ands...)
}

func (s *PaperIndex) prefixQuery(word, field string) query.Query {
	analyzer := s.index.Mapping().AnalyzerNamed(en.AnalyzerName)
	tokens := analyzer.Analyze([]byte(word))
	if len(tokens) == 0 {
		return nil
	}

	conjuncts := make([]query.Query, len(tokens))
	for i, token := range tokens {
		conjuncts[i] = &query.PrefixQuery{
			Prefix:   string(token.Term),
			FieldVal: field,
		}
	}

	return query.NewConjunctionQuery(conjuncts)
}

func andQ(qs ...query.Query) query.Query {
	ands := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ands = append(ands, q)
		}
	}

	if len(ands) == 0 {
		return nil
	}
	return query.NewConjunctionQuery(ands)
}

func orQ(qs ...query.Query) query.Query {
	ors := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ors = append(ors, q)
		}
	}

	if len(ors) == 0 {
		return nil
	}
	return query.NewDisjunctionQuery(ors)
}

func paperMapping() mapping.IndexMapping {
	english := bleve.NewTextFieldMapping()
	english.Analyzer = en.AnalyzerName

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name

	paper := bleve.NewDocumentMapping()
	paper.AddFieldMappingsAt("subject", english)
	paper.AddFieldMappingsAt("fileName", english)
	paper.AddFieldMappingsAt("courseCode", exact)
	paper.AddFieldMappingsAt("paperType", exact)
	paper.AddFieldMappingsAt("semester", exact)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = paper
	return m
}
