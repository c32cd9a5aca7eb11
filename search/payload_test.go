package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studystack/paperdex"
)

func TestBuildPayload(t *testing.T) {
	parser := NewParser()

	t.Run("facets from the query only", func(t *testing.T) {
		ctx := parser.Parse("mth102 final")
		payload := BuildPayload(paperdex.SearchFilters{}, ctx, 1, 20)

		assert.Equal(t, []string{"MTH102"}, payload.Filters.CourseCodes)
		assert.Equal(t, []string{"Final"}, payload.Filters.PaperTypes)
		assert.Empty(t, payload.Filters.Subjects)
		assert.Empty(t, payload.Filters.Semesters)
		// nothing left after extraction, the raw query carries the text search
		assert.Equal(t, "mth102 final", payload.Query)
	})

	t.Run("explicit filters union with parsed facets", func(t *testing.T) {
		ctx := parser.Parse("cs101 semester 3")
		filters := paperdex.SearchFilters{
			CourseCodes: []string{"CS 101", "EE210"},
			Semesters:   []int{2, 3},
		}

		payload := BuildPayload(filters, ctx, 1, 20)

		assert.Equal(t, []string{"CS101", "EE210"}, payload.Filters.CourseCodes)
		assert.Equal(t, []int{2, 3}, payload.Filters.Semesters)
	})

	t.Run("paper types canonicalize before merging", func(t *testing.T) {
		ctx := parser.Parse("finals")
		filters := paperdex.SearchFilters{PaperTypes: []string{"final", "Quiz"}}

		payload := BuildPayload(filters, ctx, 1, 20)
		assert.Equal(t, []string{"Final", "Quiz"}, payload.Filters.PaperTypes)
	})

	t.Run("invalid semesters dropped", func(t *testing.T) {
		payload := BuildPayload(paperdex.SearchFilters{Semesters: []int{0, 5, 13}}, paperdex.SearchContext{}, 1, 20)
		assert.Equal(t, []int{5}, payload.Filters.Semesters)
	})

	t.Run("query text prefers subject tokens", func(t *testing.T) {
		ctx := parser.Parse("cs101 advanced algorithms past paper")
		payload := BuildPayload(paperdex.SearchFilters{}, ctx, 1, 20)

		assert.Equal(t, "advanced algorithms", payload.Query)
	})

	t.Run("duplicate subject tokens collapse in query text", func(t *testing.T) {
		ctx := paperdex.SearchContext{SubjectTokens: []string{"algorithms", "data", "algorithms"}}
		payload := BuildPayload(paperdex.SearchFilters{}, ctx, 1, 20)

		assert.Equal(t, "algorithms data", payload.Query)
	})

	t.Run("paging clamps", func(t *testing.T) {
		payload := BuildPayload(paperdex.SearchFilters{}, paperdex.SearchContext{}, 0, 0)

		assert.Equal(t, 1, payload.Page)
		assert.Equal(t, DefaultPageSize, payload.PageSize)
		assert.Equal(t, 0, payload.From())
	})

	t.Run("from offset", func(t *testing.T) {
		payload := BuildPayload(paperdex.SearchFilters{}, paperdex.SearchContext{}, 3, 20)
		assert.Equal(t, 40, payload.From())
	})
}
