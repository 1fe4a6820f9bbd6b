package store_test

import (
	"math"
	"testing"

	"github.com/eldieng/Fawsayni-Tech/internal/store"
)

func TestUserFilterOffset(t *testing.T) {
	cases := []struct {
		f    store.UserFilter
		want int
	}{
		{store.UserFilter{}, 0},
		{store.UserFilter{Page: 3, Size: 10}, 20},
		{store.UserFilter{Page: 2, Size: 500}, store.MaxUserPageSize},
		{store.UserFilter{Page: math.MaxInt, Size: 100}, math.MaxInt},
	}
	for _, tc := range cases {
		if got := tc.f.Offset(); got != tc.want {
			t.Errorf("%+v: want offset %d; got %d", tc.f, tc.want, got)
		}
	}
}
