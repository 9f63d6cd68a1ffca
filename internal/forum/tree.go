package forum

import (
	"sort"

	"github.com/google/uuid"
)

// CommentNode is a comment with its direct replies, oldest first
type CommentNode struct {
	Comment Comment
	Replies []CommentNode
}

// BuildCommentTree turns a thread's flat comment list into a forest of root
// comments with nested replies. Siblings are ordered by CreatedAt, ties keep
// input order. A comment whose parent is missing from the list becomes a
// root, and so does one whose parent does not sort strictly before it, which
// rules out cycles in malformed input. Duplicate IDs keep the first
// occurrence. The input is not modified.
func BuildCommentTree(comments []Comment) []CommentNode {
	arena := make([]Comment, 0, len(comments))
	seen := make(map[uuid.UUID]struct{}, len(comments))
	for _, c := range comments {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		arena = append(arena, c)
	}
	sort.SliceStable(arena, func(i, j int) bool {
		return arena[i].CreatedAt.Before(arena[j].CreatedAt)
	})

	index := make(map[uuid.UUID]int, len(arena))
	for i, c := range arena {
		index[c.ID] = i
	}

	children := make([][]int, len(arena))
	roots := make([]int, 0, len(arena))
	for i, c := range arena {
		if c.ParentID != nil {
			if p, ok := index[*c.ParentID]; ok && p < i {
				children[p] = append(children[p], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	var build func(i int) CommentNode
	build = func(i int) CommentNode {
		node := CommentNode{
			Comment: arena[i].clone(),
			Replies: make([]CommentNode, 0, len(children[i])),
		}
		for _, c := range children[i] {
			node.Replies = append(node.Replies, build(c))
		}
		return node
	}

	forest := make([]CommentNode, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, build(r))
	}
	return forest
}

// WalkCommentTree visits every node depth first, parents before replies
func WalkCommentTree(nodes []CommentNode, fn func(node CommentNode, depth int)) {
	var walk func(nodes []CommentNode, depth int)
	walk = func(nodes []CommentNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Replies, depth+1)
		}
	}
	walk(nodes, 0)
}
