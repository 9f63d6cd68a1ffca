package forum

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(threads []Thread) []string {
	out := make([]string, len(threads))
	for i, t := range threads {
		out[i] = t.Title
	}
	return out
}

func TestApply_MostCommentsTiesKeepInputOrder(t *testing.T) {
	threads := []Thread{
		{ID: intID(1), Title: "A", CommentCount: 3},
		{ID: intID(2), Title: "B", CommentCount: 1},
		{ID: intID(3), Title: "C", CommentCount: 3},
		{ID: intID(4), Title: "D", CommentCount: 0},
	}

	got := Apply(threads, Criteria{Sort: SortMostComments})

	assert.Equal(t, []string{"A", "C", "B", "D"}, titles(got))
}

func TestApply_Search(t *testing.T) {
	rain := Thread{
		Title: "Innovative Rainwater Harvesting",
		Body:  "Collect it from the roof",
		Tags:  []Tag{{Name: "rainwater"}},
	}
	other := Thread{Title: "Composting basics", Body: "Greens and browns", Author: Identity{Username: "bob"}}

	assert.True(t, Matches(rain, "rain"))
	assert.True(t, Matches(rain, "RAIN"))
	assert.False(t, Matches(other, "rain"))

	titleOnly := rain
	titleOnly.Tags = nil
	assert.True(t, Matches(titleOnly, "rain"), "matches via title")
	tagOnly := rain
	tagOnly.Title = "Harvesting"
	assert.True(t, Matches(tagOnly, "rain"), "matches via tag")

	assert.True(t, Matches(other, "BOB"), "matches via author")
	assert.True(t, Matches(other, "browns"), "matches via body")
	assert.True(t, Matches(other, ""), "empty query matches")
	assert.False(t, Matches(rain, "rain "), "trailing space is part of the query")
	assert.True(t, Matches(other, "and browns"), "inner spaces are matched literally")

	got := Apply([]Thread{rain, other}, Criteria{Query: "rain"})
	assert.Equal(t, []string{"Innovative Rainwater Harvesting"}, titles(got))
}

func TestApply_TypeFilterAndSorts(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	threads := []Thread{
		{Title: "old-but-active", Type: ThreadTypeDiscussion, CreatedAt: base, LastActivityAt: base.Add(72 * time.Hour), UpvoteCount: 1},
		{Title: "newest", Type: ThreadTypeResource, CreatedAt: base.Add(48 * time.Hour), LastActivityAt: base.Add(48 * time.Hour), UpvoteCount: 9},
		{Title: "middle", Type: ThreadTypeDiscussion, CreatedAt: base.Add(24 * time.Hour), LastActivityAt: base.Add(24 * time.Hour), UpvoteCount: 4},
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"latest uses last activity", Criteria{Sort: SortLatest}, []string{"old-but-active", "newest", "middle"}},
		{"oldest uses creation time", Criteria{Sort: SortOldest}, []string{"old-but-active", "middle", "newest"}},
		{"most upvotes", Criteria{Sort: SortMostUpvotes}, []string{"newest", "middle", "old-but-active"}},
		{"type filter", Criteria{Type: TypeFilter(ThreadTypeDiscussion), Sort: SortOldest}, []string{"old-but-active", "middle"}},
		{"all is a no-op", Criteria{Type: TypeAll, Sort: SortOldest}, []string{"old-but-active", "middle", "newest"}},
		{"zero value sorts latest", Criteria{}, []string{"old-but-active", "newest", "middle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Apply(threads, tt.criteria)))
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	threads := []Thread{{Title: "a", UpvoteCount: 1}, {Title: "b", UpvoteCount: 2}}
	Apply(threads, Criteria{Sort: SortMostUpvotes})
	assert.Equal(t, []string{"a", "b"}, titles(threads))
}

func TestParseCriteria(t *testing.T) {
	key, err := ParseSortKey("most-upvotes")
	require.NoError(t, err)
	assert.Equal(t, SortMostUpvotes, key)

	key, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortLatest, key)

	_, err = ParseSortKey("popular")
	assert.Equal(t, Validation, KindOf(err))

	f, err := ParseTypeFilter("resource")
	require.NoError(t, err)
	assert.Equal(t, TypeFilter(ThreadTypeResource), f)

	f, err = ParseTypeFilter("")
	require.NoError(t, err)
	assert.Equal(t, TypeAll, f)

	_, err = ParseTypeFilter("poll")
	assert.ErrorIs(t, err, ErrValidation)
}

type threadSpec struct {
	Title    string
	Type     int
	Upvotes  int
	Comments int
	Created  int
	Activity int
}

func genThreads() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflect.TypeOf(threadSpec{}), map[string]gopter.Gen{
		"Title":    gen.OneConstOf("Rain barrels", "Soil health", "Drip lines", "Seed swap"),
		"Type":     gen.IntRange(0, 2),
		"Upvotes":  gen.IntRange(0, 5),
		"Comments": gen.IntRange(0, 5),
		"Created":  gen.IntRange(0, 100),
		"Activity": gen.IntRange(0, 100),
	})).Map(func(specs []threadSpec) []Thread {
		out := make([]Thread, len(specs))
		for i, s := range specs {
			created := epoch.Add(time.Duration(s.Created) * time.Hour)
			out[i] = Thread{
				ID:             intID(i + 1),
				Title:          s.Title,
				Type:           ThreadTypes[s.Type],
				UpvoteCount:    s.Upvotes,
				CommentCount:   s.Comments,
				CreatedAt:      created,
				LastActivityAt: created.Add(time.Duration(s.Activity) * time.Hour),
			}
		}
		return out
	})
}

func genCriteria() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "rain", "SOIL", "x"),
		gen.OneConstOf(TypeAll, TypeFilter(ThreadTypeDiscussion), TypeFilter(ThreadTypeResource)),
		gen.OneConstOf(SortLatest, SortOldest, SortMostUpvotes, SortMostComments),
	).Map(func(v []interface{}) Criteria {
		return Criteria{Query: v[0].(string), Type: v[1].(TypeFilter), Sort: v[2].(SortKey)}
	})
}

func sortedBy(out []Thread, key SortKey) bool {
	for i := 1; i < len(out); i++ {
		a, b := out[i-1], out[i]
		switch key {
		case SortOldest:
			if b.CreatedAt.Before(a.CreatedAt) {
				return false
			}
		case SortMostUpvotes:
			if b.UpvoteCount > a.UpvoteCount {
				return false
			}
		case SortMostComments:
			if b.CommentCount > a.CommentCount {
				return false
			}
		default:
			if b.LastActivityAt.After(a.LastActivityAt) {
				return false
			}
		}
	}
	return true
}

// **Property: output is an ordered, deterministic subsequence of the input**
func TestApplyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("output only contains matching input threads", prop.ForAll(
		func(threads []Thread, c Criteria) bool {
			byID := map[[16]byte]Thread{}
			for _, th := range threads {
				byID[th.ID] = th
			}
			for _, th := range Apply(threads, c) {
				if _, ok := byID[th.ID]; !ok || !Matches(th, c.Query) || !c.Type.Admits(th.Type) {
					return false
				}
			}
			return true
		},
		genThreads(), genCriteria(),
	))

	properties.Property("output satisfies the sort order", prop.ForAll(
		func(threads []Thread, c Criteria) bool {
			return sortedBy(Apply(threads, c), c.Sort)
		},
		genThreads(), genCriteria(),
	))

	properties.Property("equal keys keep input order", prop.ForAll(
		func(threads []Thread) bool {
			out := Apply(threads, Criteria{Sort: SortMostComments})
			for i := 1; i < len(out); i++ {
				if out[i].CommentCount == out[i-1].CommentCount && out[i].ID[15] < out[i-1].ID[15] {
					return false
				}
			}
			return true
		},
		genThreads(),
	))

	properties.Property("applying twice is deterministic and idempotent", prop.ForAll(
		func(threads []Thread, c Criteria) bool {
			once := Apply(threads, c)
			return reflect.DeepEqual(once, Apply(threads, c)) && reflect.DeepEqual(once, Apply(once, c))
		},
		genThreads(), genCriteria(),
	))

	properties.TestingRun(t)
}
