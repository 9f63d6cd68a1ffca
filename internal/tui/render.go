package tui

import (
	"fmt"
	"strings"
	"time"

	"forum-service/internal/forum"
	"forum-service/internal/util"
)

// FlatComment is a comment tree node positioned for line-based display
type FlatComment struct {
	Comment forum.Comment
	Depth   int
}

// Flatten lists a comment forest in display order, parents before replies
func Flatten(nodes []forum.CommentNode) []FlatComment {
	var out []FlatComment
	forum.WalkCommentTree(nodes, func(node forum.CommentNode, depth int) {
		out = append(out, FlatComment{Comment: node.Comment, Depth: depth})
	})
	return out
}

// ThreadLine renders a one-line summary of a thread for listings
// viewer is nil when nobody is signed in.
func (s *Styles) ThreadLine(t forum.Thread, viewer *forum.Identity) string {
	votes := fmt.Sprintf("^%d", t.UpvoteCount)
	if viewer != nil && t.UpvotedByUser(viewer.ID) {
		votes = s.Upvoted.Render(votes)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  c%d  %s %s", votes, t.CommentCount, s.Type.Render("["+string(t.Type)+"]"), t.Title)
	if len(t.Tags) > 0 {
		names := make([]string, 0, len(t.Tags))
		for _, tag := range t.Tags {
			names = append(names, "#"+tag.Slug)
		}
		b.WriteString(" " + s.Tag.Render(strings.Join(names, " ")))
	}
	b.WriteString(s.Dim.Render(fmt.Sprintf("  by %s, %s", t.Author.Username, Ago(t.LastActivityAt, time.Now()))))
	return b.String()
}

// ThreadDetail renders the thread header shown above its comments
func (s *Styles) ThreadDetail(t forum.Thread) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(t.Title) + "\n")
	b.WriteString(s.Dim.Render(fmt.Sprintf("%s by %s, %d upvotes, %d comments", t.Type, t.Author.Username, t.UpvoteCount, t.CommentCount)) + "\n\n")
	b.WriteString(util.PlainText(t.Body) + "\n")
	return b.String()
}

// CommentLine renders one comment indented by its depth
func (s *Styles) CommentLine(c FlatComment, viewer *forum.Identity) string {
	votes := fmt.Sprintf("^%d", c.Comment.UpvoteCount)
	if viewer != nil && c.Comment.UpvotedByUser(viewer.ID) {
		votes = s.Upvoted.Render(votes)
	}
	indent := strings.Repeat("  ", c.Depth)
	body := strings.ReplaceAll(util.PlainText(c.Comment.Body), "\n", " ")
	return fmt.Sprintf("%s%s %s %s", indent, votes, s.Dim.Render(c.Comment.Author.Username+":"), body)
}

// Ago formats the age of t relative to now in a compact form
func Ago(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
