package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/studystack/paperdex"
)

// Ranker computes ranking signals and orders papers for a payload. It is
// stateless apart from its configuration and safe for concurrent use.
type Ranker struct {
	// HalfLife of the recency score, DefaultHalfLife when zero.
	HalfLife time.Duration
	// Now is overridable for tests.
	Now func() time.Time
}

func NewRanker(halfLife time.Duration) *Ranker {
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	return &Ranker{HalfLife: halfLife, Now: time.Now}
}

type rankContext struct {
	courseCodes map[string]struct{}
	semesters   map[int]struct{}
	paperTypes  map[string]struct{}
	subjects    []string
	now         time.Time
	halfLife    time.Duration
}

func (r *Ranker) context(payload paperdex.SearchPayload) rankContext {
	rc := rankContext{
		courseCodes: make(map[string]struct{}),
		semesters:   make(map[int]struct{}),
		paperTypes:  make(map[string]struct{}),
		subjects:    payload.Filters.Subjects,
		halfLife:    r.HalfLife,
	}

	if rc.halfLife <= 0 {
		rc.halfLife = DefaultHalfLife
	}
	if r.Now != nil {
		rc.now = r.Now()
	} else {
		rc.now = time.Now()
	}

	for _, code := range payload.Filters.CourseCodes {
		rc.courseCodes[paperdex.NormalizeCourseCode(code)] = struct{}{}
	}
	for _, sem := range payload.Filters.Semesters {
		rc.semesters[sem] = struct{}{}
	}
	for _, t := range payload.Filters.PaperTypes {
		rc.paperTypes[strings.ToLower(paperdex.CanonicalPaperType(t))] = struct{}{}
	}

	return rc
}

func (r *Ranker) signals(p *paperdex.Paper, rc rankContext) paperdex.RankingSignals {
	var s paperdex.RankingSignals

	code := paperdex.NormalizeCourseCode(p.CourseCode)
	if code != "" {
		if _, ok := rc.courseCodes[code]; ok {
			s.CourseExact = true
			s.CoursePrefix = true
		} else {
			for want := range rc.courseCodes {
				if strings.HasPrefix(code, want) {
					s.CoursePrefix = true
					break
				}
			}
		}
	}

	if p.Semester != 0 {
		_, s.SemesterMatch = rc.semesters[p.Semester]
	}

	if t := strings.ToLower(paperdex.CanonicalPaperType(p.PaperType)); t != "" {
		_, s.PaperTypeMatch = rc.paperTypes[t]
	}

	subject := strings.ToLower(p.Subject)
	for _, token := range rc.subjects {
		if strings.Contains(subject, token) {
			s.SubjectScore++
		}
	}

	if p.Popularity > 0 {
		s.PopularityScore = math.Log10(p.Popularity + 1)
	}

	// legacy rows sometimes carry only an update timestamp
	created := p.CreatedAt
	if created.IsZero() {
		created = p.UpdatedAt
	}
	if !created.IsZero() {
		age := rc.now.Sub(created)
		if age < 0 {
			age = 0
		}
		s.RecencyScore = math.Exp(-math.Ln2 * float64(age) / float64(rc.halfLife))
	}

	return s
}

// Annotate computes signals for each paper without changing their order.
// The ranked remote path uses it to decorate rows that arrive already sorted.
func (r *Ranker) Annotate(papers []*paperdex.Paper, payload paperdex.SearchPayload) []paperdex.RankedPaper {
	rc := r.context(payload)

	ranked := make([]paperdex.RankedPaper, 0, len(papers))
	for _, p := range papers {
		if p == nil {
			continue
		}
		ranked = append(ranked, paperdex.RankedPaper{Paper: *p, Signals: r.signals(p, rc)})
	}
	return ranked
}

// Rank computes signals and sorts the papers with the full comparator. The
// sort is stable: papers equal on every key keep their relative order.
func (r *Ranker) Rank(papers []*paperdex.Paper, payload paperdex.SearchPayload) []paperdex.RankedPaper {
	ranked := r.Annotate(papers, payload)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Compare(ranked[i], ranked[j]) < 0
	})
	return ranked
}

// Compare implements the ranking total order. Each key breaks ties on the
// previous one; the ascending id comparison at the end makes the order
// deterministic for any input.
func Compare(a, b paperdex.RankedPaper) int {
	as, bs := a.Signals, b.Signals

	if as.CourseExact != bs.CourseExact {
		return trueFirst(as.CourseExact)
	}
	if as.CoursePrefix != bs.CoursePrefix {
		return trueFirst(as.CoursePrefix)
	}
	if as.SemesterMatch != bs.SemesterMatch {
		return trueFirst(as.SemesterMatch)
	}
	if as.PaperTypeMatch != bs.PaperTypeMatch {
		return trueFirst(as.PaperTypeMatch)
	}
	if as.SubjectScore != bs.SubjectScore {
		return higherFirst(float64(as.SubjectScore), float64(bs.SubjectScore))
	}
	if as.PopularityScore != bs.PopularityScore {
		return higherFirst(as.PopularityScore, bs.PopularityScore)
	}
	if as.RecencyScore != bs.RecencyScore {
		return higherFirst(as.RecencyScore, bs.RecencyScore)
	}

	// shorter titles read better; papers without one sort last
	al, bl := titleLength(a.Paper), titleLength(b.Paper)
	if al != bl {
		if al < bl {
			return -1
		}
		return 1
	}

	if a.Year != b.Year {
		return higherFirst(float64(a.Year), float64(b.Year))
	}

	ac, bc := createdMillis(a.Paper), createdMillis(b.Paper)
	if ac != bc {
		return higherFirst(float64(ac), float64(bc))
	}

	return strings.Compare(a.ID, b.ID)
}

func trueFirst(a bool) int {
	if a {
		return -1
	}
	return 1
}

func higherFirst(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}

func titleLength(p paperdex.Paper) int {
	if p.FileName == "" {
		return int(^uint(0) >> 1)
	}
	return len(p.FileName)
}

func createdMillis(p paperdex.Paper) int64 {
	if p.CreatedAt.IsZero() {
		return 0
	}
	return p.CreatedAt.UnixMilli()
}
