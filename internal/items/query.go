package items

import (
	"sort"
	"strings"
)

// Normalize fills in defaults for any unset sort or window field.
func (q Query) Normalize() Query {
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder == "" {
		q.SortOrder = DefaultSortOrder
	}
	if q.Limit == nil {
		l := DefaultLimit
		q.Limit = &l
	}
	if q.Offset == nil {
		o := 0
		q.Offset = &o
	}
	return q
}

// Matches reports whether it satisfies every filter set on q.
func (q Query) Matches(it Item) bool {
	if q.UserID != "" && it.UserID != q.UserID {
		return false
	}
	if q.Category != "" && it.Category != q.Category {
		return false
	}
	return true
}

// ApplyQuery filters, sorts and windows all, which must be in insertion order.
// Items that compare equal on the sort key keep their insertion order in both
// directions. The result never aliases all.
func ApplyQuery(all []Item, q Query) Page {
	q = q.Normalize()

	matched := make([]Item, 0, len(all))
	for _, it := range all {
		if q.Matches(it) {
			matched = append(matched, it)
		}
	}

	cmp := compareBy(q.SortBy)
	desc := q.SortOrder == SortDesc
	sort.SliceStable(matched, func(i, j int) bool {
		c := cmp(matched[i], matched[j])
		if desc {
			return c > 0
		}
		return c < 0
	})

	count := len(matched)
	start := clamp(*q.Offset, 0, count)
	end := count
	if limit := *q.Limit; limit >= 0 && limit < end-start {
		end = start + limit
	}

	data := make([]Item, end-start)
	copy(data, matched[start:end])
	return Page{Data: data, Count: count}
}

func compareBy(key string) func(a, b Item) int {
	switch key {
	case SortByBrand:
		return func(a, b Item) int {
			return strings.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
		}
	case SortByPurchasePrice:
		return func(a, b Item) int {
			switch {
			case a.PurchasePrice < b.PurchasePrice:
				return -1
			case a.PurchasePrice > b.PurchasePrice:
				return 1
			}
			return 0
		}
	default:
		return func(a, b Item) int {
			return a.PurchaseDate.Compare(b.PurchaseDate)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
