package paperdex

import (
	"strings"
	"time"
)

// RawPaper is a paper row as it arrives from the store. Rows written over the
// years use different column names for the same concept (course_code vs
// paper_code, paper_type vs exam_type, ...), so every candidate column gets
// its own field and Resolve picks the first non-empty one per concept.
type RawPaper struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`

	FileName string `json:"file_name,omitempty"`
	Title    string `json:"title,omitempty"`

	// older dumps wrote the course columns in camelCase
	CourseCode    string `json:"course_code,omitempty"`
	CourseCodeAlt string `json:"courseCode,omitempty"`
	PaperCode     string `json:"paper_code,omitempty"`
	PaperCodeAlt  string `json:"paperCode,omitempty"`
	Code          string `json:"code,omitempty"`

	PaperType string `json:"paper_type,omitempty"`
	ExamType  string `json:"exam_type,omitempty"`
	Type      string `json:"type,omitempty"`

	Semester *int `json:"semester,omitempty"`
	Sem      *int `json:"sem,omitempty"`

	Popularity    *float64 `json:"popularity,omitempty"`
	Downloads     *float64 `json:"downloads,omitempty"`
	ViewCount     *float64 `json:"view_count,omitempty"`
	DownloadCount *float64 `json:"download_count,omitempty"`

	FileFormat string `json:"file_format,omitempty"`
	Format     string `json:"format,omitempty"`
	FileSize   *int64 `json:"file_size,omitempty"`
	Size       *int64 `json:"size,omitempty"`

	Year int `json:"year,omitempty"`

	Active *bool `json:"is_active,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Set by ranked-search rows that embed the total match count.
	TotalCount *int `json:"total_count,omitempty"`
}

// Resolve turns a raw row into a canonical Paper. The candidate order per
// concept is part of the contract and covered by tests.
func (r RawPaper) Resolve() Paper {
	p := Paper{
		ID:        r.ID,
		Subject:   r.Subject,
		FileName:  firstNonEmpty(r.FileName, r.Title),
		Year:      r.Year,
		Active:    r.Active == nil || *r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	p.CourseCode = NormalizeCourseCode(firstNonEmpty(r.CourseCode, r.CourseCodeAlt, r.PaperCode, r.PaperCodeAlt, r.Code))

	if t := firstNonEmpty(r.PaperType, r.ExamType, r.Type); t != "" {
		p.PaperType = CanonicalPaperType(t)
	}

	if sem, ok := firstInt(r.Semester, r.Sem); ok {
		if v, valid := NormalizeSemester(sem); valid {
			p.Semester = v
		}
	}

	if pop, ok := firstFloat(r.Popularity, r.Downloads, r.ViewCount, r.DownloadCount); ok && pop > 0 {
		p.Popularity = pop
	}

	p.FileFormat = firstNonEmpty(r.FileFormat, r.Format, FileFormatFromName(p.FileName))

	if size, ok := firstInt64(r.FileSize, r.Size); ok {
		p.FileSize = size
	}

	return p
}

// RawFromPaper writes a canonical paper back into row shape, using the
// current column names only.
func RawFromPaper(p *Paper) RawPaper {
	raw := RawPaper{
		ID:        p.ID,
		Subject:   p.Subject,
		FileName:  p.FileName,
		Year:      p.Year,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	active := p.Active
	raw.Active = &active

	if p.CourseCode != "" {
		raw.CourseCode = NormalizeCourseCode(p.CourseCode)
	}
	if p.PaperType != "" {
		raw.PaperType = CanonicalPaperType(p.PaperType)
	}
	if p.Semester != 0 {
		sem := p.Semester
		raw.Semester = &sem
	}
	if p.Popularity > 0 {
		pop := p.Popularity
		raw.Popularity = &pop
	}
	if p.FileFormat != "" {
		raw.FileFormat = p.FileFormat
	}
	if p.FileSize > 0 {
		size := p.FileSize
		raw.FileSize = &size
	}

	return raw
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func firstInt(candidates ...*int) (int, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

func firstInt64(candidates ...*int64) (int64, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

func firstFloat(candidates ...*float64) (float64, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}
