package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/studystack/paperdex"
)

// Facet extraction rules, applied in this order: course codes, semesters,
// paper types. Each rule blanks the spans it consumed so later rules and the
// final tokenization never see them again.
var (
	courseCodeRe = regexp.MustCompile(`\b([a-z]{2,5})[\s-]?([0-9]{2,3})\b`)
	semesterRe   = regexp.MustCompile(`\b(?:sem(?:ester)?\s*-?\s*([0-9]{1,2})|([0-9]{1,2})(?:st|nd|rd|th)?\s*sem(?:ester)?)\b`)
	paperTypeRe  = regexp.MustCompile(`\b(?:mid[\s-]?term|midterm|mid|finals?|quiz(?:zes)?|assignments?|assgn)\b`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Parser turns raw query text into a SearchContext. It never fails: empty or
// unparseable input yields an all-empty context.
type Parser struct {
	stopWords map[string]struct{}
}

// NewParser builds a parser with the given stop words, defaulting to
// DefaultStopWords when none are given.
func NewParser(stopWords ...string) *Parser {
	if len(stopWords) == 0 {
		stopWords = DefaultStopWords
	}

	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Parser{stopWords: set}
}

func (p *Parser) Parse(query string) paperdex.SearchContext {
	raw := strings.TrimSpace(query)
	ctx := paperdex.SearchContext{Raw: raw}
	if raw == "" {
		return ctx
	}

	working := []byte(strings.ToLower(raw))

	for _, m := range courseCodeRe.FindAllSubmatchIndex(working, -1) {
		code := paperdex.NormalizeCourseCode(string(working[m[2]:m[3]]) + string(working[m[4]:m[5]]))
		if code == "" {
			continue
		}
		ctx.CourseCodes = appendUnique(ctx.CourseCodes, code)
		blank(working, m[0], m[1])
	}

	for _, m := range semesterRe.FindAllSubmatchIndex(working, -1) {
		digits := submatch(working, m, 1)
		if digits == "" {
			digits = submatch(working, m, 2)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		sem, ok := paperdex.NormalizeSemester(n)
		if !ok {
			continue
		}
		ctx.Semesters = appendUniqueInt(ctx.Semesters, sem)
		blank(working, m[0], m[1])
	}

	for _, m := range paperTypeRe.FindAllIndex(working, -1) {
		t, ok := paperdex.PaperTypeFromSynonym(string(working[m[0]:m[1]]))
		if !ok {
			continue
		}
		ctx.PaperTypes = appendUnique(ctx.PaperTypes, t)
		blank(working, m[0], m[1])
	}

	fields := strings.Fields(nonAlnumRe.ReplaceAllString(string(working), " "))
	ctx.Cleaned = strings.Join(fields, " ")

	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if _, stop := p.stopWords[tok]; stop {
			continue
		}
		// duplicates allowed here, the merger dedups
		ctx.SubjectTokens = append(ctx.SubjectTokens, tok)
	}

	return ctx
}

func blank(b []byte, from, to int) {
	for i := from; i < to; i++ {
		b[i] = ' '
	}
}

func submatch(b []byte, m []int, group int) string {
	lo, hi := m[2*group], m[2*group+1]
	if lo < 0 {
		return ""
	}
	return string(b[lo:hi])
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}

func appendUniqueInt(list []int, v int) []int {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
