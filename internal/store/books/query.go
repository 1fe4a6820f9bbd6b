package books

import (
	"context"
	"fmt"
	"math"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
)

// Run counts the books matching p.Filter and fetches the requested page.
// The count ignores pagination. A page past the end yields no books and
// correct metadata.
func Run(ctx context.Context, s Snapshotter, p ListParams) (Page, error) {
	p = p.normalize()
	order := withTiebreaker(p.Sort)

	var (
		total int
		items []models.Book
	)
	err := s.Snapshot(ctx, func(r Reader) error {
		var err error
		if total, err = r.CountBooks(ctx, p.Filter); err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		skip, ok := Offset(p.Page, p.Limit)
		if !ok || skip >= total {
			return nil
		}
		if items, err = r.FindBooks(ctx, p.Filter, order, skip, p.Limit); err != nil {
			return fmt.Errorf("find books: %w", err)
		}
		return nil
	})
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []models.Book{}
	}

	pages := TotalPages(total, p.Limit)
	return Page{
		Books:       items,
		TotalCount:  total,
		TotalPages:  pages,
		CurrentPage: p.Page,
		HasNextPage: p.Page < pages,
		HasPrevPage: p.Page > 1,
	}, nil
}

// TotalPages is ceil(total/limit); limit < 1 counts as DefaultLimit.
func TotalPages(total, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	if total <= 0 {
		return 0
	}
	return (total-1)/limit + 1
}

// Offset is the number of records skipped before page. ok is false when
// the offset does not fit in an int; no store can hold that many records.
func Offset(page, limit int) (skip int, ok bool) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func withTiebreaker(keys []SortKey) []SortKey {
	out := make([]SortKey, 0, len(keys)+1)
	for _, k := range keys {
		if k.Field == FieldID {
			continue
		}
		out = append(out, k)
	}
	return append(out, SortKey{Field: FieldID})
}
