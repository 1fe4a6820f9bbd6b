package books_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/eldieng/Fawsayni-Tech/internal/models"
	"github.com/eldieng/Fawsayni-Tech/internal/store/books"
)

// fakeReader filters on genre only and orders by id.
type fakeReader struct {
	all       []models.Book
	counts    int
	finds     int
	lastSort  []books.SortKey
	lastSkip  int
	lastLimit int
	countErr  error
}

func (f *fakeReader) match(flt books.Filter) []models.Book {
	var out []models.Book
	for _, b := range f.all {
		if flt.Genre != "" && b.Genre != flt.Genre {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeReader) CountBooks(_ context.Context, flt books.Filter) (int, error) {
	f.counts++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.match(flt)), nil
}

func (f *fakeReader) FindBooks(_ context.Context, flt books.Filter, keys []books.SortKey, skip, limit int) ([]models.Book, error) {
	f.finds++
	f.lastSort, f.lastSkip, f.lastLimit = keys, skip, limit
	m := f.match(flt)
	if skip >= len(m) {
		return nil, nil
	}
	end := min(skip+limit, len(m))
	return m[skip:end], nil
}

func (f *fakeReader) Snapshot(_ context.Context, fn func(books.Reader) error) error {
	return fn(f)
}

func catalog(n int) []models.Book {
	out := make([]models.Book, n)
	for i := range out {
		genre := "Fiction"
		if i%2 == 1 {
			genre = "Non-fiction"
		}
		out[i] = models.Book{ID: fmt.Sprintf("b%02d", i), Title: fmt.Sprintf("Book %d", i), Genre: genre}
	}
	return out
}

func TestRun_GenreSecondPage(t *testing.T) {
	r := &fakeReader{all: catalog(10)}
	p := books.ListParams{Filter: books.Filter{Genre: "Fiction"}, Page: 2, Limit: 3}

	page, err := books.Run(t.Context(), r, p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.TotalCount != 5 || page.TotalPages != 2 || len(page.Books) != 2 {
		t.Fatalf("want total=5 pages=2 results=2; got total=%d pages=%d results=%d",
			page.TotalCount, page.TotalPages, len(page.Books))
	}
	if page.CurrentPage != 2 || page.HasNextPage || !page.HasPrevPage {
		t.Fatalf("unexpected metadata: %+v", page)
	}
	for _, b := range page.Books {
		if b.Genre != "Fiction" {
			t.Fatalf("book %s has genre %q", b.ID, b.Genre)
		}
	}
	if r.counts != 1 || r.finds != 1 {
		t.Fatalf("want one count and one find; got %d and %d", r.counts, r.finds)
	}
	if r.lastSkip != 3 || r.lastLimit != 3 {
		t.Fatalf("want skip=3 limit=3; got skip=%d limit=%d", r.lastSkip, r.lastLimit)
	}
}

func TestRun_AppendsTiebreaker(t *testing.T) {
	r := &fakeReader{all: catalog(2)}
	_, err := books.Run(t.Context(), r, books.ListParams{Sort: []books.SortKey{{Field: "title"}}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []books.SortKey{{Field: "title"}, {Field: books.FieldID}}
	if len(r.lastSort) != 2 || r.lastSort[0] != want[0] || r.lastSort[1] != want[1] {
		t.Fatalf("want sort %+v; got %+v", want, r.lastSort)
	}
}

func TestRun_PageBeyondEnd(t *testing.T) {
	r := &fakeReader{all: catalog(4)}
	page, err := books.Run(t.Context(), r, books.ListParams{Page: 7, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Books == nil || len(page.Books) != 0 {
		t.Fatalf("want empty non-nil list; got %#v", page.Books)
	}
	if page.TotalCount != 4 || page.TotalPages != 2 || page.CurrentPage != 7 {
		t.Fatalf("unexpected metadata: %+v", page)
	}
	if page.HasNextPage || !page.HasPrevPage {
		t.Fatalf("want hasNext=false hasPrev=true; got %+v", page)
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	page, err := books.Run(t.Context(), &fakeReader{}, books.ListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.TotalCount != 0 || page.TotalPages != 0 || page.CurrentPage != 1 {
		t.Fatalf("unexpected metadata: %+v", page)
	}
	if page.HasNextPage || page.HasPrevPage {
		t.Fatalf("want no neighbours; got %+v", page)
	}
}

func TestRun_StoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := books.Run(t.Context(), &fakeReader{countErr: boom}, books.ListParams{})
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped boom; got %v", err)
	}
}

func TestRun_ResultSize(t *testing.T) {
	const total = 23
	r := &fakeReader{all: catalog(total)}
	for limit := 1; limit <= 10; limit++ {
		for page := 1; page <= 30; page++ {
			got, err := books.Run(t.Context(), r, books.ListParams{Page: page, Limit: limit})
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			want := min(limit, max(0, total-(page-1)*limit))
			if len(got.Books) != want {
				t.Fatalf("page=%d limit=%d: want %d results; got %d", page, limit, want, len(got.Books))
			}
			if got.HasPrevPage != (page > 1) || got.HasNextPage != (page < got.TotalPages) {
				t.Fatalf("page=%d limit=%d: bad neighbours %+v", page, limit, got)
			}
		}
	}
}

func TestRun_PagesPartitionResults(t *testing.T) {
	r := &fakeReader{all: catalog(11)}
	seen := map[string]int{}
	for page := 1; page <= 4; page++ {
		got, err := books.Run(t.Context(), r, books.ListParams{Page: page, Limit: 3})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		for _, b := range got.Books {
			seen[b.ID]++
		}
	}
	if len(seen) != 11 {
		t.Fatalf("want 11 distinct books across pages; got %d", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("book %s appeared %d times", id, n)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, limit, want int }{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{5, 3, 2},
		{10, 0, 2},
		{-1, 5, 0},
		{3, math.MaxInt, 1},
		{math.MaxInt, 1, math.MaxInt},
	}
	for _, tc := range cases {
		if got := books.TotalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("TotalPages(%d, %d): want %d; got %d", tc.total, tc.limit, tc.want, got)
		}
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		page, limit, want int
		ok                bool
	}{
		{1, 9, 0, true},
		{3, 4, 8, true},
		{0, 4, 0, true},
		{922337203685477581, 100, 0, false},
		{2, math.MaxInt, math.MaxInt, true},
		{3, math.MaxInt, 0, false},
	}
	for _, tc := range cases {
		got, ok := books.Offset(tc.page, tc.limit)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Offset(%d, %d): want %d,%v; got %d,%v", tc.page, tc.limit, tc.want, tc.ok, got, ok)
		}
	}
}

func TestRun_HugePageIsEmpty(t *testing.T) {
	r := &fakeReader{all: catalog(3)}
	page, err := books.Run(t.Context(), r, books.ListParams{Page: 922337203685477581, Limit: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Books == nil || len(page.Books) != 0 {
		t.Fatalf("want empty non-nil list; got %#v", page.Books)
	}
	if page.TotalCount != 3 || page.TotalPages != 1 || page.CurrentPage != 922337203685477581 {
		t.Fatalf("unexpected metadata: %+v", page)
	}
	if page.HasNextPage || !page.HasPrevPage {
		t.Fatalf("want hasNext=false hasPrev=true; got %+v", page)
	}
	if r.finds != 0 {
		t.Fatalf("want no fetch past the end; got %d", r.finds)
	}
}

func TestRun_LimitAboveHundred(t *testing.T) {
	r := &fakeReader{all: catalog(150)}
	page, err := books.Run(t.Context(), r, books.ListParams{Page: 1, Limit: 150})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Books) != 150 || page.TotalPages != 1 || page.HasNextPage {
		t.Fatalf("want 150 results on 1 page; got %d results, %d pages", len(page.Books), page.TotalPages)
	}
}
