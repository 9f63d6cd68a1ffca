package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"forum-service/internal/forum"
)

type threadsLoadedMsg struct{ err error }

type commentsLoadedMsg struct {
	threadID uuid.UUID
	tree     []forum.CommentNode
	err      error
}

type voteDoneMsg struct {
	target forum.Target
	err    error
}

type commentPostedMsg struct {
	threadID uuid.UUID
	err      error
}

// Browser is an interactive forum session. Its screens follow the
// forum.Navigator states.
type Browser struct {
	ctx       context.Context
	lifecycle *forum.ThreadLifecycle
	nav       *forum.Navigator
	styles    *Styles
	keys      KeyMap

	threads       []forum.Thread
	cursor        int
	comments      []FlatComment
	commentCursor int // 0 selects the thread itself

	search    textinput.Model
	searching bool
	editor    textarea.Model
	posting   bool

	status string
	width  int
	height int
}

// NewBrowser creates a browser over lifecycle. ctx bounds every request the
// browser issues.
func NewBrowser(ctx context.Context, lifecycle *forum.ThreadLifecycle) *Browser {
	search := textinput.New()
	search.Placeholder = "Search threads..."
	search.CharLimit = 100

	editor := textarea.New()
	editor.Placeholder = "Write a comment..."
	editor.ShowLineNumbers = false
	editor.SetHeight(5)

	return &Browser{
		ctx:       ctx,
		lifecycle: lifecycle,
		nav:       forum.NewNavigator(lifecycle),
		styles:    NewStyles(),
		keys:      DefaultKeyMap(),
		search:    search,
		editor:    editor,
	}
}

// Navigator exposes the browser's navigation state
func (b *Browser) Navigator() *forum.Navigator { return b.nav }

func (b *Browser) Init() tea.Cmd {
	return b.refreshThreads
}

func (b *Browser) refreshThreads() tea.Msg {
	return threadsLoadedMsg{err: b.lifecycle.RefreshThreads(b.ctx)}
}

func (b *Browser) loadComments(threadID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		tree, err := b.lifecycle.LoadComments(b.ctx, threadID)
		return commentsLoadedMsg{threadID: threadID, tree: tree, err: err}
	}
}

func (b *Browser) toggleVote(target forum.Target) tea.Cmd {
	return func() tea.Msg {
		_, err := b.lifecycle.ToggleVote(b.ctx, target)
		return voteDoneMsg{target: target, err: err}
	}
}

func (b *Browser) postComment(threadID uuid.UUID, parentID *uuid.UUID, body string) tea.Cmd {
	return func() tea.Msg {
		_, err := b.lifecycle.PostComment(b.ctx, threadID, body, parentID)
		return commentPostedMsg{threadID: threadID, err: err}
	}
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.editor.SetWidth(max(msg.Width-4, 20))
		return b, nil

	case threadsLoadedMsg:
		if msg.err != nil && !errors.Is(msg.err, forum.ErrSuperseded) {
			b.setError(msg.err)
		}
		b.syncThreads()
		return b, nil

	case commentsLoadedMsg:
		if errors.Is(msg.err, forum.ErrSuperseded) {
			return b, nil
		}
		if view := b.nav.Current(); view.State == forum.Listing || view.ThreadID != msg.threadID {
			return b, nil
		}
		if msg.err != nil {
			b.setError(msg.err)
			return b, nil
		}
		b.comments = Flatten(msg.tree)
		b.commentCursor = clamp(b.commentCursor, 0, len(b.comments))
		return b, nil

	case voteDoneMsg:
		if msg.err != nil {
			b.setError(msg.err)
		}
		b.syncThreads()
		b.syncComments()
		return b, nil

	case commentPostedMsg:
		b.posting = false
		if msg.err != nil {
			// keep the draft so it can be fixed and resubmitted
			b.setError(msg.err)
			return b, nil
		}
		b.editor.Reset()
		b.status = "Comment posted"
		if err := b.nav.Back(); err == nil {
			_ = b.nav.Select(msg.threadID)
		}
		b.syncThreads()
		b.syncComments()
		return b, nil

	case tea.KeyMsg:
		switch b.nav.Current().State {
		case forum.Viewing:
			return b.updateViewing(msg)
		case forum.Composing:
			return b.updateComposing(msg)
		default:
			return b.updateListing(msg)
		}
	}
	return b, nil
}

func (b *Browser) updateListing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.searching {
		switch {
		case key.Matches(msg, b.keys.Enter), key.Matches(msg, b.keys.Back):
			b.searching = false
			b.search.Blur()
			return b, nil
		}
		var cmd tea.Cmd
		b.search, cmd = b.search.Update(msg)
		criteria := b.lifecycle.Criteria()
		criteria.Query = b.search.Value()
		b.lifecycle.SetCriteria(criteria)
		b.syncThreads()
		return b, cmd
	}

	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Up):
		b.cursor = clamp(b.cursor-1, 0, len(b.threads)-1)
	case key.Matches(msg, b.keys.Down):
		b.cursor = clamp(b.cursor+1, 0, len(b.threads)-1)
	case key.Matches(msg, b.keys.Search):
		b.searching = true
		b.search.Focus()
		return b, textinput.Blink
	case key.Matches(msg, b.keys.Sort):
		criteria := b.lifecycle.Criteria()
		criteria.Sort = nextSortKey(criteria.Sort)
		b.lifecycle.SetCriteria(criteria)
		b.syncThreads()
	case key.Matches(msg, b.keys.Type):
		criteria := b.lifecycle.Criteria()
		criteria.Type = nextTypeFilter(criteria.Type)
		b.lifecycle.SetCriteria(criteria)
		b.syncThreads()
	case key.Matches(msg, b.keys.Refresh):
		b.status = ""
		return b, b.refreshThreads
	case key.Matches(msg, b.keys.Upvote):
		if t, ok := b.selectedThread(); ok {
			return b, b.toggleVote(forum.ThreadTarget(t.ID))
		}
	case key.Matches(msg, b.keys.Enter):
		t, ok := b.selectedThread()
		if !ok {
			return b, nil
		}
		if err := b.nav.Select(t.ID); err != nil {
			b.setError(err)
			return b, nil
		}
		b.status = ""
		b.comments = nil
		b.commentCursor = 0
		return b, b.loadComments(t.ID)
	}
	return b, nil
}

func (b *Browser) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	threadID := b.nav.Current().ThreadID

	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Back):
		_ = b.nav.Back()
		b.comments = nil
		b.status = ""
		b.syncThreads()
	case key.Matches(msg, b.keys.Up):
		b.commentCursor = clamp(b.commentCursor-1, 0, len(b.comments))
	case key.Matches(msg, b.keys.Down):
		b.commentCursor = clamp(b.commentCursor+1, 0, len(b.comments))
	case key.Matches(msg, b.keys.Refresh):
		return b, b.loadComments(threadID)
	case key.Matches(msg, b.keys.Upvote):
		if b.commentCursor == 0 {
			return b, b.toggleVote(forum.ThreadTarget(threadID))
		}
		return b, b.toggleVote(forum.CommentTarget(b.comments[b.commentCursor-1].Comment.ID))
	case key.Matches(msg, b.keys.Comment):
		return b, b.startCompose(nil)
	case key.Matches(msg, b.keys.Reply):
		if b.commentCursor == 0 {
			return b, b.startCompose(nil)
		}
		parent := b.comments[b.commentCursor-1].Comment.ID
		return b, b.startCompose(&parent)
	}
	return b, nil
}

func (b *Browser) startCompose(parentID *uuid.UUID) tea.Cmd {
	if err := b.nav.Compose(parentID); err != nil {
		b.setError(err)
		return nil
	}
	b.status = ""
	return b.editor.Focus()
}

func (b *Browser) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Back):
		b.editor.Blur()
		_ = b.nav.Back()
		b.comments = nil
		b.syncThreads()
		return b, nil
	case key.Matches(msg, b.keys.Submit):
		if b.posting {
			return b, nil
		}
		view := b.nav.Current()
		b.posting = true
		b.status = "Posting..."
		return b, b.postComment(view.ThreadID, view.ParentID, b.editor.Value())
	}

	var cmd tea.Cmd
	b.editor, cmd = b.editor.Update(msg)
	return b, cmd
}

func (b *Browser) View() string {
	var body string
	switch view := b.nav.Current(); view.State {
	case forum.Viewing:
		body = b.viewThread(view.ThreadID)
	case forum.Composing:
		body = b.viewCompose(view)
	default:
		body = b.viewListing()
	}
	if b.status != "" {
		body += "\n" + b.status
	}
	return body
}

func (b *Browser) viewListing() string {
	var sb strings.Builder
	criteria := b.lifecycle.Criteria()
	sb.WriteString(b.styles.Title.Render("Forum") + "\n")
	sb.WriteString(b.styles.Header.Render(fmt.Sprintf("sort: %s  type: %s  search: %q", criteria.Sort, criteria.Type, criteria.Query)) + "\n")
	if b.searching {
		sb.WriteString(b.search.View() + "\n")
	}

	viewer := b.viewer()
	if len(b.threads) == 0 {
		sb.WriteString(b.styles.Dim.Render("No threads") + "\n")
	}
	for i, t := range b.threads {
		line := b.styles.ThreadLine(t, viewer)
		if b.lifecycle.Votes().Status(forum.ThreadTarget(t.ID)) == forum.VotePending {
			line += b.styles.Pending.Render(" (voting)")
		}
		if i == b.cursor {
			sb.WriteString(b.styles.Selected.Render(line) + "\n")
		} else {
			sb.WriteString(b.styles.Item.Render(line) + "\n")
		}
	}
	sb.WriteString(b.styles.Help.Render("enter open  / search  s sort  t type  u upvote  R refresh  q quit"))
	return sb.String()
}

func (b *Browser) viewThread(threadID uuid.UUID) string {
	t, ok := b.lifecycle.Store().Thread(threadID)
	if !ok {
		return b.styles.Error.Render("Thread not loaded")
	}

	var sb strings.Builder
	header := b.styles.ThreadDetail(t)
	if b.commentCursor == 0 {
		header = b.styles.Selected.Render(header)
	}
	sb.WriteString(header + "\n")

	viewer := b.viewer()
	for i, c := range b.comments {
		line := b.styles.CommentLine(c, viewer)
		if i+1 == b.commentCursor {
			sb.WriteString(b.styles.Selected.Render(line) + "\n")
		} else {
			sb.WriteString(b.styles.Item.Render(line) + "\n")
		}
	}
	sb.WriteString(b.styles.Help.Render("c comment  r reply  u upvote  R reload  esc back"))
	return sb.String()
}

func (b *Browser) viewCompose(view forum.View) string {
	title := "New comment"
	if view.ParentID != nil {
		title = "Reply"
		if c, ok := b.lifecycle.Store().Comment(*view.ParentID); ok {
			title = "Reply to " + c.Author.Username
		}
	}
	return b.styles.Title.Render(title) + "\n" +
		b.styles.Editor.Render(b.editor.View()) + "\n" +
		b.styles.Help.Render("ctrl+s post  esc discard")
}

func (b *Browser) syncThreads() {
	b.threads = b.lifecycle.Threads()
	b.cursor = clamp(b.cursor, 0, len(b.threads)-1)
}

func (b *Browser) syncComments() {
	view := b.nav.Current()
	if view.State == forum.Listing {
		return
	}
	b.comments = Flatten(b.lifecycle.CommentTree(view.ThreadID))
	b.commentCursor = clamp(b.commentCursor, 0, len(b.comments))
}

func (b *Browser) selectedThread() (forum.Thread, bool) {
	if b.cursor < 0 || b.cursor >= len(b.threads) {
		return forum.Thread{}, false
	}
	return b.threads[b.cursor], true
}

func (b *Browser) viewer() *forum.Identity {
	if id, ok := b.lifecycle.Identity().CurrentUser(); ok {
		return &id
	}
	return nil
}

func (b *Browser) setError(err error) {
	b.status = b.styles.Error.Render(describe(err))
}

// describe turns a core error into a message for the status line
func describe(err error) string {
	switch forum.KindOf(err) {
	case forum.Unauthorized:
		return "Sign in (set FORUM_TOKEN) to do that, or you are not the author"
	case forum.Busy:
		return "Still waiting on the previous vote"
	case forum.NotFound:
		return "That item no longer exists"
	case forum.NetworkFailure:
		return "Network error: " + err.Error()
	default:
		return err.Error()
	}
}

func nextSortKey(current forum.SortKey) forum.SortKey {
	for i, k := range forum.SortKeys {
		if k == current {
			return forum.SortKeys[(i+1)%len(forum.SortKeys)]
		}
	}
	return forum.SortLatest
}

func nextTypeFilter(current forum.TypeFilter) forum.TypeFilter {
	filters := []forum.TypeFilter{forum.TypeAll}
	for _, t := range forum.ThreadTypes {
		filters = append(filters, forum.TypeFilter(t))
	}
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return forum.TypeAll
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
