package gin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studystack/paperdex"
)

// The search URL parameters mirror the site's address bar: free text under
// "q", facets as comma-joined lists under "subjects", "courses", "semesters"
// and "types". Values round-trip through the same canonicalization the
// parser and merger use.
type searchParams struct {
	Query    string
	Filters  paperdex.SearchFilters
	Page     int
	PageSize int
}

func parseSearchParams(c *gin.Context) (searchParams, error) {
	params := searchParams{Query: c.Query("q")}

	page, ok, err := queryInt("page", c)
	if err != nil {
		return params, err
	}
	if ok {
		params.Page = page
	}

	pageSize, ok, err := queryInt("pageSize", c)
	if err != nil {
		return params, err
	}
	if ok {
		params.PageSize = pageSize
	}

	params.Filters = paperdex.SearchFilters{
		Subjects:    splitParam(c.Query("subjects"), strings.ToLower),
		CourseCodes: splitParam(c.Query("courses"), paperdex.NormalizeCourseCode),
		PaperTypes:  splitParam(c.Query("types"), paperdex.CanonicalPaperType),
		Semesters:   splitSemesters(c.Query("semesters")),
	}

	return params, nil
}

// EncodeSearchParams serializes a query and filters back into URL values,
// the inverse of parseSearchParams.
func EncodeSearchParams(query string, filters paperdex.SearchFilters) url.Values {
	values := url.Values{}

	if query != "" {
		values.Set("q", query)
	}
	if len(filters.Subjects) > 0 {
		values.Set("subjects", strings.Join(filters.Subjects, ","))
	}
	if len(filters.CourseCodes) > 0 {
		values.Set("courses", strings.Join(filters.CourseCodes, ","))
	}
	if len(filters.Semesters) > 0 {
		semesters := make([]string, len(filters.Semesters))
		for i, sem := range filters.Semesters {
			semesters[i] = strconv.Itoa(sem)
		}
		values.Set("semesters", strings.Join(semesters, ","))
	}
	if len(filters.PaperTypes) > 0 {
		values.Set("types", strings.Join(filters.PaperTypes, ","))
	}

	return values
}

func splitParam(value string, canonical func(string) string) []string {
	if value == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if c := canonical(strings.TrimSpace(part)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func splitSemesters(value string) []int {
	if value == "" {
		return nil
	}

	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if sem, ok := paperdex.NormalizeSemester(n); ok {
			out = append(out, sem)
		}
	}
	return out
}

func queryInt(key string, c *gin.Context) (int, bool, error) {
	v := c.Query(key)
	if v == "" {
		return 0, false, nil
	}

	i, err := strconv.Atoi(v)
	return i, true, err
}
