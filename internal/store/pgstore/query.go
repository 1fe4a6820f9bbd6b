package pgstore

import (
	"strconv"
	"strings"

	storebooks "github.com/eldieng/Fawsayni-Tech/internal/store/books"
)

var sortColumn = map[string]string{
	storebooks.FieldTitle:         "title",
	storebooks.FieldAuthor:        "author",
	storebooks.FieldDescription:   "description",
	storebooks.FieldGenre:         "genre",
	storebooks.FieldISBN:          "isbn",
	storebooks.FieldPublishedYear: "published_year",
	storebooks.FieldAvailable:     "available",
	storebooks.FieldCreatedAt:     "created_at",
	storebooks.FieldID:            "id",
}

// whereClause renders f as " WHERE ..." (or "") with positional args.
func whereClause(f storebooks.Filter) (string, []any) {
	where := []string{}
	args := []any{}
	i := 1

	if f.Genre != "" {
		where = append(where, "genre = $"+strconv.Itoa(i))
		args = append(args, f.Genre)
		i++
	}
	if f.Available != nil {
		where = append(where, "available = $"+strconv.Itoa(i))
		args = append(args, *f.Available)
		i++
	}
	if f.Owner != "" {
		// text comparison so a malformed id matches nothing instead of failing
		where = append(where, "user_id::text = $"+strconv.Itoa(i))
		args = append(args, f.Owner)
		i++
	}
	if f.Search != "" {
		n := "$" + strconv.Itoa(i)
		where = append(where, "(title ILIKE "+n+` ESCAPE '\' OR author ILIKE `+n+` ESCAPE '\' OR description ILIKE `+n+` ESCAPE '\')`)
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func orderClause(keys []storebooks.SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		col, ok := sortColumn[k.Field]
		if !ok {
			continue
		}
		// NULL years sort as the smallest value.
		switch {
		case k.Desc && col == "published_year":
			parts = append(parts, col+" DESC NULLS LAST")
		case k.Desc:
			parts = append(parts, col+" DESC")
		case col == "published_year":
			parts = append(parts, col+" ASC NULLS FIRST")
		default:
			parts = append(parts, col+" ASC")
		}
	}
	if len(parts) == 0 {
		return " ORDER BY created_at DESC, id ASC"
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
