package forum

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ViewState is the screen a single forum session is on
type ViewState int

const (
	Listing ViewState = iota
	Viewing
	Composing
)

func (s ViewState) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Composing:
		return "composing"
	default:
		return "listing"
	}
}

// View is the navigator's current position. ThreadID is set in Viewing and
// Composing; ParentID is set when composing a reply.
type View struct {
	State    ViewState
	ThreadID uuid.UUID
	ParentID *uuid.UUID
}

// ErrInvalidTransition is returned for a navigation the current state does
// not allow
var ErrInvalidTransition = NewError(Validation, "navigate", errors.New("invalid transition"))

// CommentLoadCanceler discards in-flight comment loads for a thread.
// *ThreadLifecycle implements it.
type CommentLoadCanceler interface {
	CancelCommentLoad(threadID uuid.UUID)
}

// Navigator is the Listing -> Viewing -> Composing state machine. Every
// transition is explicit.
type Navigator struct {
	mu       sync.Mutex
	view     View
	canceler CommentLoadCanceler
}

// NewNavigator starts in Listing. canceler may be nil.
func NewNavigator(canceler CommentLoadCanceler) *Navigator {
	return &Navigator{canceler: canceler}
}

// Current returns the current view
func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Select opens a thread from the listing
func (n *Navigator) Select(threadID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.view.State != Listing || threadID == uuid.Nil {
		return ErrInvalidTransition
	}
	n.view = View{State: Viewing, ThreadID: threadID}
	return nil
}

// Compose starts a comment on the viewed thread, or a reply when parentID
// is set
func (n *Navigator) Compose(parentID *uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.view.State != Viewing {
		return ErrInvalidTransition
	}
	var parent *uuid.UUID
	if parentID != nil {
		p := *parentID
		parent = &p
	}
	n.view = View{State: Composing, ThreadID: n.view.ThreadID, ParentID: parent}
	return nil
}

// Back returns to the listing, discarding any comment load for the thread
// being left
func (n *Navigator) Back() error {
	n.mu.Lock()
	left := n.view
	if left.State == Listing {
		n.mu.Unlock()
		return ErrInvalidTransition
	}
	n.view = View{State: Listing}
	n.mu.Unlock()

	if n.canceler != nil {
		n.canceler.CancelCommentLoad(left.ThreadID)
	}
	return nil
}
