package books

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseListParams reads the listing query string. It never fails: malformed
// values fall back to their defaults.
func ParseListParams(q url.Values) ListParams {
	p := ListParams{
		Filter: Filter{
			Genre:  strings.TrimSpace(q.Get("genre")),
			Owner:  strings.TrimSpace(q.Get("user")),
			Search: strings.TrimSpace(q.Get("search")),
		},
		Sort:  ParseSort(q.Get("sort")),
		Page:  positiveInt(q.Get("page"), DefaultPage),
		Limit: positiveInt(q.Get("limit"), DefaultLimit),
	}
	// any value other than exactly "true" asks for unavailable books
	if raw := q.Get("available"); raw != "" {
		v := raw == "true"
		p.Filter.Available = &v
	}
	return p.normalize()
}

// ParseSort turns "a,-b" into ascending a, descending b. Unknown fields are
// dropped; an empty result means newest first.
func ParseSort(raw string) []SortKey {
	var keys []SortKey
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(strings.TrimPrefix(part, "-"), "+")
		if _, ok := sortable[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		keys = append(keys, SortKey{Field: name, Desc: desc})
	}
	if len(keys) == 0 {
		keys = []SortKey{{Field: FieldCreatedAt, Desc: true}}
	}
	return keys
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (p ListParams) normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if len(p.Sort) == 0 {
		p.Sort = []SortKey{{Field: FieldCreatedAt, Desc: true}}
	}
	return p
}
