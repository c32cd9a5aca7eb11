package paperdex

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// paperTypeSynonyms maps collapsed lowercase spellings to canonical paper
// types. Lookups go through synonymKey so that "Mid-Term" and "mid term"
// share the "midterm" entry.
var paperTypeSynonyms = map[string]string{
	"mid":         "Midterm",
	"midterm":     "Midterm",
	"final":       "Final",
	"finals":      "Final",
	"quiz":        "Quiz",
	"quizzes":     "Quiz",
	"assignment":  "Assignment",
	"assignments": "Assignment",
	"assgn":       "Assignment",
}

func synonymKey(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.NewReplacer("-", "", " ", "").Replace(v)
}

// NormalizeCourseCode uppercases v and strips everything that is not a letter
// or a digit, so "cs-101", "CS 101" and "cs101" all become "CS101".
func NormalizeCourseCode(v string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(v) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PaperTypeFromSynonym maps a raw token to its canonical paper type. The
// second return value reports whether the token is a known synonym.
func PaperTypeFromSynonym(v string) (string, bool) {
	t, ok := paperTypeSynonyms[synonymKey(v)]
	return t, ok
}

// CanonicalPaperType maps v through the synonym table, returning the trimmed
// input unchanged when no synonym matches.
func CanonicalPaperType(v string) string {
	if t, ok := PaperTypeFromSynonym(v); ok {
		return t
	}
	return strings.TrimSpace(v)
}

// NormalizeSemester validates v against the 1..12 range.
func NormalizeSemester(v int) (int, bool) {
	if v < 1 || v > 12 {
		return 0, false
	}
	return v, true
}

// FileFormatFromName infers a format label from a filename extension.
func FileFormatFromName(name string) string {
	ext := filepath.Ext(name)
	if len(ext) < 2 {
		return ""
	}
	return strings.ToUpper(ext[1:])
}

// FormatFileSize renders a byte count for display, e.g. "2.5 MB".
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "unknown size"
	}
	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Log(float64(size)) / math.Log(1024))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(size) / math.Pow(1024, float64(i))
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	return fmt.Sprintf("%s %s", s, units[i])
}
