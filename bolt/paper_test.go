package bolt

import (
	"context"
	"os"
	"testing"

	"github.com/studystack/paperdex"
)

func createDriver(t *testing.T) (*Driver, func()) {
	tmpFile, err := os.CreateTemp("", "")
	if err != nil {
		t.Fatal("could not create tmp file:", err)
	}
	tmpFile.Close()

	filename := tmpFile.Name()
	driver := &Driver{}
	if err := driver.Open(filename); err != nil {
		os.Remove(filename)
		t.Fatalf("could not open bolt on file %s: %v", filename, err)
	}

	return driver, func() {
		driver.Close()
		os.Remove(filename)
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestPaperStore_Upsert_Get(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}

	paper := paperdex.Paper{Subject: "Algorithms", CourseCode: "cs-101", Active: true}
	if err := store.Upsert(&paper); err != nil {
		t.Fatal("error inserting:", err)
	}
	if paper.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if paper.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}

	papers, err := store.Get(paper.ID)
	if err != nil {
		t.Fatal("error getting:", err)
	} else if len(papers) != 1 {
		t.Fatalf("incorrect number of papers retrieved: expected 1 got %d", len(papers))
	}

	retrieved := papers[0]
	if retrieved.Subject != "Algorithms" {
		t.Fatalf("incorrect subject: got %s", retrieved.Subject)
	}
	if retrieved.CourseCode != "CS101" {
		t.Fatalf("expected course code to be normalized on read, got %s", retrieved.CourseCode)
	}
}

func TestPaperStore_Get_PreservesOrderSkipsMissing(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}

	first := paperdex.Paper{Subject: "First", Active: true}
	second := paperdex.Paper{Subject: "Second", Active: true}
	for _, p := range []*paperdex.Paper{&first, &second} {
		if err := store.Upsert(p); err != nil {
			t.Fatal("error inserting:", err)
		}
	}

	papers, err := store.Get(second.ID, "missing", first.ID)
	if err != nil {
		t.Fatal("error getting:", err)
	}
	if len(papers) != 2 {
		t.Fatalf("expected 2 papers got %d", len(papers))
	}
	if papers[0].Subject != "Second" || papers[1].Subject != "First" {
		t.Fatalf("order not preserved: got %s, %s", papers[0].Subject, papers[1].Subject)
	}
}

func TestPaperStore_Delete(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}

	paper := paperdex.Paper{Subject: "Algorithms", Active: true}
	if err := store.Upsert(&paper); err != nil {
		t.Fatal("error inserting:", err)
	}
	if err := store.Delete(paper.ID); err != nil {
		t.Fatal("error deleting:", err)
	}

	papers, err := store.Get(paper.ID)
	if err != nil {
		t.Fatal("error getting:", err)
	}
	if len(papers) != 0 {
		t.Fatalf("expected no papers got %d", len(papers))
	}
}

func TestPaperStore_IncrementPopularity(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}

	paper := paperdex.Paper{Subject: "Algorithms", Popularity: 2, Active: true}
	if err := store.Upsert(&paper); err != nil {
		t.Fatal("error inserting:", err)
	}

	if err := store.IncrementPopularity(paper.ID, 1); err != nil {
		t.Fatal("error incrementing:", err)
	}

	papers, err := store.Get(paper.ID)
	if err != nil {
		t.Fatal("error getting:", err)
	}
	if papers[0].Popularity != 3 {
		t.Fatalf("expected popularity 3 got %f", papers[0].Popularity)
	}

	err = store.IncrementPopularity("missing", 1)
	if err == nil {
		t.Fatal("expected an error for a missing paper")
	}
	if !paperdex.IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestPaperStore_ImportRaw_LegacyColumns(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}

	raw := paperdex.RawPaper{
		Subject:   "Calculus",
		Title:     "MTH102 Final 2022",
		PaperCode: "mth-102",
		ExamType:  "finals",
		Sem:       intPtr(2),
		Downloads: floatPtr(17),
	}
	id, err := store.ImportRaw(raw)
	if err != nil {
		t.Fatal("error importing:", err)
	}
	if id == "" {
		t.Fatal("expected an id to be minted")
	}

	papers, err := store.Get(id)
	if err != nil {
		t.Fatal("error getting:", err)
	}
	if len(papers) != 1 {
		t.Fatalf("expected 1 paper got %d", len(papers))
	}

	paper := papers[0]
	if paper.FileName != "MTH102 Final 2022" {
		t.Fatalf("title should back the file name, got %s", paper.FileName)
	}
	if paper.CourseCode != "MTH102" {
		t.Fatalf("legacy paper_code should resolve, got %s", paper.CourseCode)
	}
	if paper.PaperType != "Final" {
		t.Fatalf("legacy exam_type should resolve, got %s", paper.PaperType)
	}
	if paper.Semester != 2 {
		t.Fatalf("legacy sem should resolve, got %d", paper.Semester)
	}
	if paper.Popularity != 17 {
		t.Fatalf("legacy downloads should resolve, got %f", paper.Popularity)
	}
}

func seedWindowFixtures(t *testing.T, store *PaperStore) {
	rows := []paperdex.RawPaper{
		{ID: "01", Subject: "Algorithms", CourseCode: "CS101", PaperType: "Final", Semester: intPtr(3)},
		{ID: "02", Subject: "Data Structures", PaperCode: "cs-101", ExamType: "midterm", Sem: intPtr(3)},
		{ID: "03", Subject: "Calculus", CourseCode: "MTH102", PaperType: "Final", Semester: intPtr(2)},
		{ID: "04", Subject: "Circuits", CourseCode: "EE210", PaperType: "Quiz", Semester: intPtr(4)},
		{ID: "05", Subject: "Inactive Algorithms", CourseCode: "CS101", Active: boolPtr(false)},
		{ID: "06", Subject: "Programming", CourseCodeAlt: "cs101"},
	}
	for _, row := range rows {
		if _, err := store.ImportRaw(row); err != nil {
			t.Fatal("error importing:", err)
		}
	}
}

func TestPaperStore_FetchWindow(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}
	seedWindowFixtures(t, store)

	tts := map[string]struct {
		payload paperdex.SearchPayload
		window  int
		ids     []string
		count   int
	}{
		"no predicates returns every active row": {
			payload: paperdex.SearchPayload{Page: 1, PageSize: 10},
			window:  10,
			ids:     []string{"01", "02", "03", "04", "06"},
			count:   5,
		},
		"course code matches legacy columns": {
			payload: paperdex.SearchPayload{
				Filters:  paperdex.SearchFilters{CourseCodes: []string{"cs 101"}},
				Page:     1,
				PageSize: 10,
			},
			window: 10,
			ids:    []string{"01", "02", "06"},
			count:  3,
		},
		"facet groups are anded": {
			payload: paperdex.SearchPayload{
				Filters: paperdex.SearchFilters{
					CourseCodes: []string{"CS101"},
					PaperTypes:  []string{"finals"},
				},
				Page:     1,
				PageSize: 10,
			},
			window: 10,
			ids:    []string{"01"},
			count:  1,
		},
		"semester filter": {
			payload: paperdex.SearchPayload{
				Filters:  paperdex.SearchFilters{Semesters: []int{2, 4}},
				Page:     1,
				PageSize: 10,
			},
			window: 10,
			ids:    []string{"03", "04"},
			count:  2,
		},
		"subject filter": {
			payload: paperdex.SearchPayload{
				Filters:  paperdex.SearchFilters{Subjects: []string{"calculus"}},
				Page:     1,
				PageSize: 10,
			},
			window: 10,
			ids:    []string{"03"},
			count:  1,
		},
		"free text hits course columns": {
			payload: paperdex.SearchPayload{Query: "mth 102", Page: 1, PageSize: 10},
			window:  10,
			ids:     []string{"03"},
			count:   1,
		},
		"window slices but count covers all matches": {
			payload: paperdex.SearchPayload{Page: 1, PageSize: 2},
			window:  2,
			ids:     []string{"01", "02"},
			count:   5,
		},
		"offset from the second page": {
			payload: paperdex.SearchPayload{Page: 2, PageSize: 2},
			window:  2,
			ids:     []string{"03", "04"},
			count:   5,
		},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			rows, count, err := store.FetchWindow(context.Background(), tt.payload, tt.window)
			if err != nil {
				t.Fatal("error fetching:", err)
			}
			if count != tt.count {
				t.Fatalf("expected count %d got %d", tt.count, count)
			}
			if len(rows) != len(tt.ids) {
				t.Fatalf("expected %d rows got %d", len(tt.ids), len(rows))
			}
			for i, id := range tt.ids {
				if rows[i].ID != id {
					t.Fatalf("row %d: expected id %s got %s", i, id, rows[i].ID)
				}
			}
		})
	}
}

func TestPaperStore_FetchWindow_CanceledContext(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &PaperStore{Driver: driver}
	seedWindowFixtures(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.FetchWindow(ctx, paperdex.SearchPayload{Page: 1, PageSize: 10}, 10)
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}
