package pgstore

import (
	"testing"

	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
)

func TestWhereClause(t *testing.T) {
	yes := true
	where, args := whereClause(storebooks.Filter{Genre: "Fiction", Available: &yes, Owner: "u1", Search: "50%_off"})

	want := ` WHERE genre = $1 AND available = $2 AND user_id::text = $3 AND (title ILIKE $4 ESCAPE '\' OR author ILIKE $4 ESCAPE '\' OR description ILIKE $4 ESCAPE '\')`
	if where != want {
		t.Fatalf("where mismatch\nwant: %s\ngot:  %s", want, where)
	}
	if len(args) != 4 || args[0] != "Fiction" || args[1] != true || args[2] != "u1" || args[3] != `%50\%\_off%` {
		t.Fatalf("unexpected args: %#v", args)
	}

	where, args = whereClause(storebooks.Filter{})
	if where != "" || len(args) != 0 {
		t.Fatalf("want empty clause; got %q %v", where, args)
	}
}

func TestOrderClause(t *testing.T) {
	got := orderClause([]storebooks.SortKey{
		{Field: "publishedYear", Desc: true},
		{Field: "title"},
		{Field: "nope"},
		{Field: storebooks.FieldID},
	})
	want := " ORDER BY published_year DESC NULLS LAST, title ASC, id ASC"
	if got != want {
		t.Fatalf("want %q; got %q", want, got)
	}
	if got := orderClause(nil); got != " ORDER BY created_at DESC, id ASC" {
		t.Fatalf("unexpected default order %q", got)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`a\b%c_d`); got != `a\\b\%c\_d` {
		t.Fatalf("got %q", got)
	}
}
