package search

import (
	"strings"

	"github.com/studystack/paperdex"
)

// BuildPayload merges the explicit filter selections with the facets parsed
// out of the query text into one normalized payload. Both sides go through
// the same canonicalization, so "CS 101" picked in the UI and "cs-101" typed
// in the search box collapse to a single entry. Pure function.
func BuildPayload(filters paperdex.SearchFilters, ctx paperdex.SearchContext, page, pageSize int) paperdex.SearchPayload {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	merged := paperdex.SearchFilters{
		Subjects:    mergeStrings(lowered, filters.Subjects, ctx.SubjectTokens),
		CourseCodes: mergeStrings(paperdex.NormalizeCourseCode, filters.CourseCodes, ctx.CourseCodes),
		Semesters:   mergeSemesters(filters.Semesters, ctx.Semesters),
		PaperTypes:  mergeStrings(paperdex.CanonicalPaperType, filters.PaperTypes, ctx.PaperTypes),
	}

	query := strings.Join(mergeStrings(lowered, ctx.SubjectTokens), " ")
	if query == "" {
		query = ctx.Cleaned
	}
	if query == "" {
		query = ctx.Raw
	}

	return paperdex.SearchPayload{
		Query:    query,
		Filters:  merged,
		Page:     page,
		PageSize: pageSize,
	}
}

func lowered(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// mergeStrings unions the lists after canonicalization, keeping first-seen
// order and dropping values that canonicalize to empty.
func mergeStrings(canonical func(string) string, lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, v := range list {
			c := canonical(v)
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func mergeSemesters(lists ...[]int) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, list := range lists {
		for _, v := range list {
			sem, ok := paperdex.NormalizeSemester(v)
			if !ok {
				continue
			}
			if _, dup := seen[sem]; dup {
				continue
			}
			seen[sem] = struct{}{}
			out = append(out, sem)
		}
	}
	return out
}
