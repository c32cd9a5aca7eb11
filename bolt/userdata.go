package bolt

import (
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"github.com/studystack/paperdex"
)

var userDataBucket = []byte("userdata")

const (
	maxRecentViews   = 10
	maxSearchHistory = 10
)

// UserDataStore keeps per-user favorites, recent views and search history,
// one json record per user.
type UserDataStore struct {
	Driver *Driver
}

type userData struct {
	Favorites     []string              `json:"favorites"`
	RecentViews   []paperdex.RecentView `json:"recentViews"`
	SearchHistory []string              `json:"searchHistory"`
}

func (s *UserDataStore) load(tx *bolt.Tx, user string) (userData, error) {
	var data userData
	raw := tx.Bucket(userDataBucket).Get([]byte(user))
	if raw == nil {
		return data, nil
	}
	err := json.Unmarshal(raw, &data)
	return data, err
}

func (s *UserDataStore) save(tx *bolt.Tx, user string, data userData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.Bucket(userDataBucket).Put([]byte(user), raw)
}

func (s *UserDataStore) Favorites(user string) ([]string, error) {
	var favorites []string
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		data, err := s.load(tx, user)
		if err != nil {
			return err
		}
		favorites = data.Favorites
		return nil
	})
	if err != nil {
		return nil, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.favorites", Err: err}
	}
	return favorites, nil
}

// ToggleFavorite adds or removes paperID from the user's favorites and
// reports whether the paper is now favorited.
func (s *UserDataStore) ToggleFavorite(user, paperID string) (bool, error) {
	var favorited bool
	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		data, err := s.load(tx, user)
		if err != nil {
			return err
		}

		kept := data.Favorites[:0]
		for _, id := range data.Favorites {
			if id != paperID {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(data.Favorites) {
			kept = append(kept, paperID)
			favorited = true
		}
		data.Favorites = kept

		return s.save(tx, user, data)
	})
	if err != nil {
		return false, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.favorites", Err: err}
	}
	return favorited, nil
}

func (s *UserDataStore) RecentViews(user string) ([]paperdex.RecentView, error) {
	var views []paperdex.RecentView
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		data, err := s.load(tx, user)
		if err != nil {
			return err
		}
		views = data.RecentViews
		return nil
	})
	if err != nil {
		return nil, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.recent views", Err: err}
	}
	return views, nil
}

// AddRecentView pushes a view to the front of the user's list, dropping any
// earlier view of the same paper and capping the list at maxRecentViews.
func (s *UserDataStore) AddRecentView(user string, view paperdex.RecentView) error {
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now()
	}

	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		data, err := s.load(tx, user)
		if err != nil {
			return err
		}

		views := []paperdex.RecentView{view}
		for _, v := range data.RecentViews {
			if v.PaperID == view.PaperID {
				continue
			}
			views = append(views, v)
		}
		if len(views) > maxRecentViews {
			views = views[:maxRecentViews]
		}
		data.RecentViews = views

		return s.save(tx, user, data)
	})
	if err != nil {
		return &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.recent views", Err: err}
	}
	return nil
}

func (s *UserDataStore) SearchHistory(user string) ([]string, error) {
	var history []string
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		data, err := s.load(tx, user)
		if err != nil {
			return err
		}
		history = data.SearchHistory
		return nil
	})
	if err != nil {
		return nil, &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.search history", Err: err}
	}
	return history, nil
}

// AddSearchHistory pushes a query to the front of the user's history,
// deduplicating and capping at maxSearchHistory.
func (s *UserDataStore) AddSearchHistory(user, query string) error {
	err := s.Driver.store.Update(func(tx *bolt.Tx) error {
		data, err := s.load(tx, user)
		if err != nil {
			return err
		}

		history := []string{query}
		for _, q := range data.SearchHistory {
			if q == query {
				continue
			}
			history = append(history, q)
		}
		if len(history) > maxSearchHistory {
			history = history[:maxSearchHistory]
		}
		data.SearchHistory = history

		return s.save(tx, user, data)
	})
	if err != nil {
		return &paperdex.StoreError{Kind: paperdex.StoreQuery, Op: "bolt.search history", Err: err}
	}
	return nil
}
