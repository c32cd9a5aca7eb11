package bolt

import (
	"fmt"
	"testing"
	"time"

	"github.com/studystack/paperdex"
)

func TestUserDataStore_Favorites(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &UserDataStore{Driver: driver}

	favorites, err := store.Favorites("alice")
	if err != nil {
		t.Fatal("error listing favorites:", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected no favorites got %d", len(favorites))
	}

	favorited, err := store.ToggleFavorite("alice", "paper-1")
	if err != nil {
		t.Fatal("error toggling:", err)
	}
	if !favorited {
		t.Fatal("first toggle should favorite")
	}

	if _, err := store.ToggleFavorite("alice", "paper-2"); err != nil {
		t.Fatal("error toggling:", err)
	}

	favorites, err = store.Favorites("alice")
	if err != nil {
		t.Fatal("error listing favorites:", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("expected 2 favorites got %d", len(favorites))
	}

	favorited, err = store.ToggleFavorite("alice", "paper-1")
	if err != nil {
		t.Fatal("error toggling:", err)
	}
	if favorited {
		t.Fatal("second toggle should unfavorite")
	}

	favorites, err = store.Favorites("alice")
	if err != nil {
		t.Fatal("error listing favorites:", err)
	}
	if len(favorites) != 1 || favorites[0] != "paper-2" {
		t.Fatalf("expected only paper-2 got %v", favorites)
	}

	// users do not share favorites
	favorites, err = store.Favorites("bob")
	if err != nil {
		t.Fatal("error listing favorites:", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected no favorites for bob got %d", len(favorites))
	}
}

func TestUserDataStore_RecentViews(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &UserDataStore{Driver: driver}

	now := time.Now()
	for i := 0; i < 12; i++ {
		view := paperdex.RecentView{
			PaperID:  fmt.Sprintf("paper-%02d", i),
			ViewedAt: now.Add(time.Duration(i) * time.Minute),
		}
		if err := store.AddRecentView("alice", view); err != nil {
			t.Fatal("error adding view:", err)
		}
	}

	views, err := store.RecentViews("alice")
	if err != nil {
		t.Fatal("error listing views:", err)
	}
	if len(views) != 10 {
		t.Fatalf("expected the list to cap at 10 got %d", len(views))
	}
	if views[0].PaperID != "paper-11" {
		t.Fatalf("expected the most recent view first, got %s", views[0].PaperID)
	}
	if views[9].PaperID != "paper-02" {
		t.Fatalf("expected the oldest kept view last, got %s", views[9].PaperID)
	}

	// viewing again moves the paper to the front without growing the list
	if err := store.AddRecentView("alice", paperdex.RecentView{PaperID: "paper-05"}); err != nil {
		t.Fatal("error adding view:", err)
	}
	views, err = store.RecentViews("alice")
	if err != nil {
		t.Fatal("error listing views:", err)
	}
	if len(views) != 10 {
		t.Fatalf("expected 10 views got %d", len(views))
	}
	if views[0].PaperID != "paper-05" {
		t.Fatalf("expected paper-05 first got %s", views[0].PaperID)
	}
	if views[0].ViewedAt.IsZero() {
		t.Fatal("expected a view timestamp to be set")
	}
}

func TestUserDataStore_SearchHistory(t *testing.T) {
	driver, f := createDriver(t)
	defer f()
	store := &UserDataStore{Driver: driver}

	for i := 0; i < 12; i++ {
		if err := store.AddSearchHistory("alice", fmt.Sprintf("query %02d", i)); err != nil {
			t.Fatal("error adding history:", err)
		}
	}

	history, err := store.SearchHistory("alice")
	if err != nil {
		t.Fatal("error listing history:", err)
	}
	if len(history) != 10 {
		t.Fatalf("expected the history to cap at 10 got %d", len(history))
	}
	if history[0] != "query 11" {
		t.Fatalf("expected the latest query first got %s", history[0])
	}

	// repeating a query moves it to the front instead of duplicating it
	if err := store.AddSearchHistory("alice", "query 07"); err != nil {
		t.Fatal("error adding history:", err)
	}
	history, err = store.SearchHistory("alice")
	if err != nil {
		t.Fatal("error listing history:", err)
	}
	if len(history) != 10 {
		t.Fatalf("expected 10 entries got %d", len(history))
	}
	if history[0] != "query 07" {
		t.Fatalf("expected query 07 first got %s", history[0])
	}
	if history[1] != "query 11" {
		t.Fatalf("expected query 11 second got %s", history[1])
	}
}
