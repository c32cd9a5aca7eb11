package gin

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/studystack/paperdex"
)

func paramContext(t *testing.T, target string) *gin.Context {
	gin.SetMode(gin.ReleaseMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseSearchParams(t *testing.T) {
	var tts = []struct {
		name   string
		target string
		params searchParams
		fails  bool
	}{
		{
			name:   "empty",
			target: "/paperdex/papers",
			params: searchParams{},
		},
		{
			name:   "full query",
			target: "/paperdex/papers?q=algorithms&subjects=Maths,Physics&courses=cs-101,ee210&semesters=2,3&types=finals,quiz&page=2&pageSize=10",
			params: searchParams{
				Query: "algorithms",
				Filters: paperdex.SearchFilters{
					Subjects:    []string{"maths", "physics"},
					CourseCodes: []string{"CS101", "EE210"},
					Semesters:   []int{2, 3},
					PaperTypes:  []string{"Final", "Quiz"},
				},
				Page:     2,
				PageSize: 10,
			},
		},
		{
			name:   "invalid semesters dropped",
			target: "/paperdex/papers?semesters=0,5,13,yolo",
			params: searchParams{
				Filters: paperdex.SearchFilters{Semesters: []int{5}},
			},
		},
		{
			name:   "page not a number",
			target: "/paperdex/papers?page=yolo",
			fails:  true,
		},
		{
			name:   "page size not a number",
			target: "/paperdex/papers?pageSize=yolo",
			fails:  true,
		},
	}

	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			params, err := parseSearchParams(paramContext(t, tt.target))
			if tt.fails {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			if !reflect.DeepEqual(params, tt.params) {
				t.Fatalf("incorrect params: expected %+v got %+v", tt.params, params)
			}
		})
	}
}

// Encoding then parsing gives back the same canonical filters, so search
// pages can be shared as links.
func TestSearchParamsRoundTrip(t *testing.T) {
	filters := paperdex.SearchFilters{
		Subjects:    []string{"maths"},
		CourseCodes: []string{"CS101"},
		Semesters:   []int{3},
		PaperTypes:  []string{"Final"},
	}

	values := EncodeSearchParams("algorithms", filters)
	target := "/paperdex/papers?" + values.Encode()

	params, err := parseSearchParams(paramContext(t, target))
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if params.Query != "algorithms" {
		t.Errorf("expected query algorithms got %s", params.Query)
	}
	if !reflect.DeepEqual(params.Filters, filters) {
		t.Fatalf("filters did not round-trip: expected %+v got %+v", filters, params.Filters)
	}
}
