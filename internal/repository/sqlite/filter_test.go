package sqlite

import (
	"context"
	"testing"

	"github.com/printscript/snippet-manager/internal/model"
	"github.com/printscript/snippet-manager/internal/repository"
)

func search(t *testing.T, db *DB, filter model.Filter, page, size int, identity string) *model.Page {
	t.Helper()
	result, err := db.Search(context.Background(), filter, repository.PageRequest{Page: page, Size: size}, identity)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	return result
}

func TestSearch_VisibilityScoping(t *testing.T) {
	db := newTestDB(t)

	mine := insertTestSnippet(t, db, "mine", "printscript", "alice@x.com")
	shared := insertTestSnippet(t, db, "shared", "printscript", "carol@x.com")
	insertTestSnippet(t, db, "private", "printscript", "carol@x.com")

	insertTestStatus(t, db, mine.ID, "alice@x.com", model.StatusPending)
	insertTestStatus(t, db, shared.ID, "alice@x.com", model.StatusPending)

	result := search(t, db, model.Filter{}, 0, 20, "alice@x.com")

	if result.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2 (authored + shared, not carol's private one)", result.TotalCount)
	}
	for _, item := range result.Items {
		if item.Name == "private" {
			t.Error("unshared snippet leaked into another user's search")
		}
	}
}

func TestSearch_AuthoredVisibleWithoutStatusRow(t *testing.T) {
	db := newTestDB(t)
	insertTestSnippet(t, db, "solo", "printscript", "alice@x.com")

	result := search(t, db, model.Filter{}, 0, 20, "alice@x.com")

	if result.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", result.TotalCount)
	}
	if result.Items[0].Status != "" {
		t.Errorf("Status = %q, want empty when no status row exists", result.Items[0].Status)
	}
}

func TestSearch_NewestFirst(t *testing.T) {
	db := newTestDB(t)

	first := insertTestSnippet(t, db, "first", "printscript", "alice@x.com")
	second := insertTestSnippet(t, db, "second", "printscript", "alice@x.com")

	result := search(t, db, model.Filter{}, 0, 20, "alice@x.com")

	if len(result.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(result.Items))
	}
	if result.Items[0].ID != second.ID || result.Items[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest first [%s %s]",
			result.Items[0].ID, result.Items[1].ID, second.ID, first.ID)
	}
}

func TestSearch_Filters(t *testing.T) {
	db := newTestDB(t)

	sum := insertTestSnippet(t, db, "sum of squares", "printscript", "alice@x.com")
	insertTestSnippet(t, db, "fib", "python", "alice@x.com")
	insertTestStatus(t, db, sum.ID, "alice@x.com", model.StatusCompliant)

	t.Run("by name substring", func(t *testing.T) {
		result := search(t, db, model.Filter{Name: "squares"}, 0, 20, "alice@x.com")
		if result.TotalCount != 1 || result.Items[0].ID != sum.ID {
			t.Errorf("name filter returned %d items", result.TotalCount)
		}
	})

	t.Run("by language", func(t *testing.T) {
		result := search(t, db, model.Filter{Language: "python"}, 0, 20, "alice@x.com")
		if result.TotalCount != 1 || result.Items[0].Name != "fib" {
			t.Errorf("language filter returned %d items", result.TotalCount)
		}
	})

	t.Run("by status", func(t *testing.T) {
		result := search(t, db, model.Filter{Status: model.StatusCompliant}, 0, 20, "alice@x.com")
		if result.TotalCount != 1 || result.Items[0].ID != sum.ID {
			t.Errorf("status filter returned %d items", result.TotalCount)
		}
		if result.Items[0].Status != model.StatusCompliant {
			t.Errorf("Status = %q, want COMPLIANT", result.Items[0].Status)
		}
	})

	t.Run("no match", func(t *testing.T) {
		result := search(t, db, model.Filter{Language: "cobol"}, 0, 20, "alice@x.com")
		if result.TotalCount != 0 || len(result.Items) != 0 {
			t.Errorf("expected empty page, got %d items", len(result.Items))
		}
	})
}

func TestSearch_Pagination(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		insertTestSnippet(t, db, "snippet", "printscript", "alice@x.com")
	}

	page0 := search(t, db, model.Filter{}, 0, 2, "alice@x.com")
	page2 := search(t, db, model.Filter{}, 2, 2, "alice@x.com")

	if page0.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", page0.TotalCount)
	}
	if page0.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page0.TotalPages)
	}
	if len(page0.Items) != 2 {
		t.Errorf("page 0 len = %d, want 2", len(page0.Items))
	}
	if len(page2.Items) != 1 {
		t.Errorf("page 2 len = %d, want 1", len(page2.Items))
	}
	if page2.Page != 2 {
		t.Errorf("Page = %d, want 2", page2.Page)
	}
}

func TestSearch_NoCodeBodies(t *testing.T) {
	db := newTestDB(t)
	insertTestSnippet(t, db, "sum", "printscript", "alice@x.com")

	result := search(t, db, model.Filter{}, 0, 20, "alice@x.com")

	// SnippetSummary has no code field at all; this guards the contract
	// at the item level.
	if len(result.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(result.Items))
	}
	if result.Items[0].Author != "alice@x.com" {
		t.Errorf("Author = %q, want author in summary", result.Items[0].Author)
	}
}
