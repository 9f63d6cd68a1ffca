package forum

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"forum-service/internal/util"
)

// TagResolver maps a user-typed tag name to an existing tag, creating the
// tag when no tag with the same key exists yet
type TagResolver struct {
	authority Authority
	store     *Store
	logger    *zap.Logger
}

// NewTagResolver creates a TagResolver backed by store's tag catalog
func NewTagResolver(authority Authority, store *Store, logger *zap.Logger) *TagResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagResolver{authority: authority, store: store, logger: logger}
}

// Resolve returns the tag for name. "Irrigation" and " irrigation" resolve
// to the same tag. A creation conflict means another client won the race, so
// the existing tag is fetched and returned instead of an error.
func (r *TagResolver) Resolve(ctx context.Context, name string) (Tag, error) {
	const op = "resolve tag"

	key := util.TagKey(name)
	if key == "" {
		return Tag{}, errorf(Validation, op, "tag name is empty")
	}

	if tag, ok := r.store.TagByKey(key); ok {
		return tag, nil
	}
	if tag, ok, err := r.refresh(ctx, key); err != nil || ok {
		return tag, wrap(op, err)
	}

	tag, err := r.authority.CreateTag(ctx, strings.TrimSpace(name))
	if err == nil {
		r.store.AddTag(tag)
		r.logger.Debug("Tag created", zap.String("tag_id", tag.ID.String()), zap.String("slug", tag.Slug))
		return tag, nil
	}
	if KindOf(err) != Conflict {
		return Tag{}, wrap(op, err)
	}

	r.logger.Debug("Tag created concurrently, fetching existing", zap.String("tag", key))
	tag, ok, err := r.refresh(ctx, key)
	if err != nil {
		return Tag{}, wrap(op, err)
	}
	if !ok {
		return Tag{}, errorf(NotFound, op, "tag %q reported as existing but not listed", key)
	}
	return tag, nil
}

func (r *TagResolver) refresh(ctx context.Context, key string) (Tag, bool, error) {
	tags, err := r.authority.ListTags(ctx)
	if err != nil {
		return Tag{}, false, err
	}
	r.store.ReplaceTags(tags)
	tag, ok := r.store.TagByKey(key)
	return tag, ok, nil
}

// TagSelection is the set of tags picked for a thread. Membership is by ID;
// tags without an ID yet are compared by name, ignoring case and
// surrounding whitespace.
type TagSelection struct {
	tags []Tag
}

// Contains reports whether tag is already selected
func (s *TagSelection) Contains(tag Tag) bool {
	return s.index(tag) >= 0
}

// Add selects tag and reports whether it was new
func (s *TagSelection) Add(tag Tag) bool {
	if s.Contains(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Remove deselects tag and reports whether it was present
func (s *TagSelection) Remove(tag Tag) bool {
	i := s.index(tag)
	if i < 0 {
		return false
	}
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	return true
}

// Tags returns the selection in the order tags were added
func (s *TagSelection) Tags() []Tag {
	return append([]Tag(nil), s.tags...)
}

// IDs returns the IDs of the persisted tags in the selection
func (s *TagSelection) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.tags))
	for _, t := range s.tags {
		if t.ID != uuid.Nil {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (s *TagSelection) Len() int { return len(s.tags) }

func (s *TagSelection) index(tag Tag) int {
	for i, t := range s.tags {
		if tag.ID != uuid.Nil && t.ID == tag.ID {
			return i
		}
		if (tag.ID == uuid.Nil || t.ID == uuid.Nil) && util.SameName(t.Name, tag.Name) {
			return i
		}
	}
	return -1
}
