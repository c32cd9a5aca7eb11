package bolt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/studystack/paperdex"
)

var paperBucket = []byte("papers")

// PaperStore stores paper rows in a bolt database. Rows are kept in their raw
// column shape so legacy dumps survive a round trip; reads resolve them into
// canonical papers.
type PaperStore struct {
	Driver *Driver
}

// Get retrieves the papers for the given ids, preserving the requested order
// and skipping ids that do not exist.
func (s *PaperStore) Get(ids ...string) ([]*paperdex.Paper, error) {
	papers := make([]*paperdex.Paper, 0, len(ids))
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		for _, id := range ids {
			data := bucket.Get([]byte(id))
			if data == nil {
				continue
			}

			var raw paperdex.RawPaper
			if err := json.Unmarshal(data, &raw); err != nil {
				return err
			}
			paper := raw.Resolve()
			papers = append(papers, &paper)
		}
		return nil
	})
	if err != nil {
		return nil, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.get", Err: err}
	}

	return papers, nil
}

func (s *PaperStore) List() ([]*paperdex.Paper, error) {
	var papers []*paperdex.Paper

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(paperBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var raw paperdex.RawPaper
			if err := json.Unmarshal(v, &raw); err != nil {
				return err
			}
			paper := raw.Resolve()
			papers = append(papers, &paper)
		}
		return nil
	})
	if err != nil {
		return nil, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.list", Err: err}
	}

	return papers, nil
}

// Upsert inserts or updates a paper. New papers get a uuid and a creation
// timestamp.
func (s *PaperStore) Upsert(paper *paperdex.Paper) error {
	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		now := time.Now()
		if paper.ID == "" {
			paper.ID = uuid.NewString()
			paper.CreatedAt = now
		}
		if paper.CreatedAt.IsZero() {
			paper.CreatedAt = now
		}
		paper.UpdatedAt = now

		data, err := json.Marshal(paperdex.RawFromPaper(paper))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(paper.ID), data)
	})
	if err != nil {
		return &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.upsert", Err: err}
	}
	return nil
}

// ImportRaw stores a row as-is, minting an id when the row has none. Used by
// the import command to load legacy dumps without rewriting their columns.
func (s *PaperStore) ImportRaw(raw paperdex.RawPaper) (string, error) {
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if raw.CreatedAt.IsZero() {
		raw.CreatedAt = time.Now()
	}

	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		return tx.Bucket(paperBucket).Put([]byte(raw.ID), data)
	})
	if err != nil {
		return "", &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.import", Err: err}
	}
	return raw.ID, nil
}

func (s *PaperStore) Delete(id string) error {
	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(paperBucket).Delete([]byte(id))
	})
	if err != nil {
		return &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.delete", Err: err}
	}
	return nil
}

// IncrementPopularity bumps a paper's popularity counter by delta.
func (s *PaperStore) IncrementPopularity(id string, delta float64) error {
	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		data := bucket.Get([]byte(id))
		if data == nil {
			return &paperdex.StoreError{Kind: paperdex.StoreNotFound, Op: "bolt.popularity"}
		}

		var raw paperdex.RawPaper
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}

		pop := raw.Resolve().Popularity + delta
		raw.Popularity = &pop

		updated, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), updated)
	})
	if err != nil {
		if paperdex.IsNotFound(err) {
			return err
		}
		return &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.popularity", Err: err}
	}
	return nil
}

// FetchWindow scans the papers bucket with the payload's facet predicates and
// returns up to window matching raw rows starting at the payload's page
// offset, plus the total number of matches.
func (s *PaperStore) FetchWindow(ctx context.Context, payload paperdex.SearchPayload, window int) ([]paperdex.RawPaper, int, error) {
	if window <= 0 {
		window = payload.PageSize
	}
	from := payload.From()

	var rows []paperdex.RawPaper
	count := 0
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(paperBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var raw paperdex.RawPaper
			if err := json.Unmarshal(v, &raw); err != nil {
				return err
			}
			if !matchesPayload(raw, payload) {
				continue
			}

			if count >= from && len(rows) < window {
				rows = append(rows, raw)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return nil, 0, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.fetch window", Err: err}
	}

	return rows, count, nil
}

// matchesPayload applies the fallback predicates: every present facet group
// must match (groups are OR within, AND between). Course codes are checked
// against both current and legacy columns.
func matchesPayload(raw paperdex.RawPaper, payload paperdex.SearchPayload) bool {
	paper := raw.Resolve()
	if !paper.Active {
		return false
	}

	// browse-everything payloads skip the group checks entirely
	if payload.Filters.Empty() && strings.TrimSpace(payload.Query) == "" {
		return true
	}

	f := payload.Filters

	if len(f.CourseCodes) > 0 && !matchesCourseCodes(raw, f.CourseCodes) {
		return false
	}

	if len(f.Semesters) > 0 {
		found := false
		for _, sem := range f.Semesters {
			if paper.Semester == sem {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.PaperTypes) > 0 {
		found := false
		for _, t := range f.PaperTypes {
			if strings.EqualFold(paper.PaperType, paperdex.CanonicalPaperType(t)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Subjects) > 0 {
		subject := strings.ToLower(paper.Subject)
		found := false
		for _, token := range f.Subjects {
			if strings.Contains(subject, strings.ToLower(token)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(payload.Query)); q != "" && !matchesFreeText(raw, q) {
		return false
	}

	return true
}

func matchesCourseCodes(raw paperdex.RawPaper, codes []string) bool {
	columns := []string{raw.CourseCode, raw.CourseCodeAlt, raw.PaperCode, raw.PaperCodeAlt, raw.Code}
	for _, column := range columns {
		norm := paperdex.NormalizeCourseCode(column)
		if norm == "" {
			continue
		}
		for _, code := range codes {
			if strings.Contains(norm, paperdex.NormalizeCourseCode(code)) {
				return true
			}
		}
	}
	return false
}

func matchesFreeText(raw paperdex.RawPaper, q string) bool {
	haystacks := []string{
		raw.Subject,
		raw.FileName,
		raw.Title,
		raw.CourseCode,
		raw.CourseCodeAlt,
		raw.PaperCode,
		raw.PaperCodeAlt,
		raw.PaperType,
		raw.ExamType,
	}
	for _, h := range haystacks {
		if h != "" && strings.Contains(strings.ToLower(h), q) {
			return true
		}
	}

	// a query like "cs 101" should still hit a "CS-101" column
	if qCode := paperdex.NormalizeCourseCode(q); qCode != "" {
		for _, column := range []string{raw.CourseCode, raw.CourseCodeAlt, raw.PaperCode, raw.PaperCodeAlt, raw.Code} {
			if norm := paperdex.NormalizeCourseCode(column); norm != "" && strings.Contains(norm, qCode) {
				return true
			}
		}
	}

	return false
}
