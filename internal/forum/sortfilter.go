package forum

import (
	"sort"
	"strings"
)

// SortKey selects the thread ordering
type SortKey string

const (
	SortLatest       SortKey = "latest"
	SortOldest       SortKey = "oldest"
	SortMostUpvotes  SortKey = "most-upvotes"
	SortMostComments SortKey = "most-comments"
)

// SortKeys lists every valid SortKey
var SortKeys = []SortKey{SortLatest, SortOldest, SortMostUpvotes, SortMostComments}

// TypeFilter is either TypeAll or one ThreadType
type TypeFilter string

const TypeAll TypeFilter = "all"

// Criteria are the list view's search, filter and sort settings. The zero
// value matches everything and sorts by latest activity.
type Criteria struct {
	Query string
	Type  TypeFilter
	Sort  SortKey
}

// DefaultCriteria returns the criteria a fresh listing starts with
func DefaultCriteria() Criteria {
	return Criteria{Type: TypeAll, Sort: SortLatest}
}

// ParseSortKey validates a user-supplied sort key. Empty means latest.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.TrimSpace(s))
	if key == "" {
		return SortLatest, nil
	}
	for _, k := range SortKeys {
		if key == k {
			return k, nil
		}
	}
	return "", errorf(Validation, "parse sort key", "unknown sort key %q", s)
}

// ParseTypeFilter validates a user-supplied type filter. Empty means all.
func ParseTypeFilter(s string) (TypeFilter, error) {
	f := TypeFilter(strings.TrimSpace(s))
	if f == "" || f == TypeAll {
		return TypeAll, nil
	}
	if ThreadType(f).Valid() {
		return f, nil
	}
	return "", errorf(Validation, "parse type filter", "unknown thread type %q", s)
}

// Admits reports whether a thread of type t passes the filter
func (f TypeFilter) Admits(t ThreadType) bool {
	return f == "" || f == TypeAll || ThreadType(f) == t
}

// Matches reports whether query occurs, case-insensitively, in the thread's
// title, body, author name or any tag name. An empty query matches.
// Whitespace in the query is significant.
func Matches(t Thread, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	if containsFold(t.Title, q) || containsFold(t.Body, q) || containsFold(t.Author.Username, q) {
		return true
	}
	for _, tag := range t.Tags {
		if containsFold(tag.Name, q) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

// Apply narrows threads by search then type, and sorts the survivors
// stably. It returns a new slice and leaves threads untouched.
//
// latest orders by last activity, newest first, while oldest orders by
// creation time, oldest first.
func Apply(threads []Thread, c Criteria) []Thread {
	out := make([]Thread, 0, len(threads))
	for _, t := range threads {
		if Matches(t, c.Query) && c.Type.Admits(t.Type) {
			out = append(out, t)
		}
	}

	var less func(a, b Thread) bool
	switch c.Sort {
	case SortOldest:
		less = func(a, b Thread) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortMostUpvotes:
		less = func(a, b Thread) bool { return a.UpvoteCount > b.UpvoteCount }
	case SortMostComments:
		less = func(a, b Thread) bool { return a.CommentCount > b.CommentCount }
	default:
		less = func(a, b Thread) bool { return a.LastActivityAt.After(b.LastActivityAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
