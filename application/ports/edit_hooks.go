package ports

import (
	"context"
	"encoding/json"
	"time"
)

// ContentChange describes a live edit of a single document. NodePresent
// mirrors the editing tool handing over a rendered element reference; a
// change with neither node nor content means the underlying document was
// deleted.
type ContentChange struct {
	NodePresent bool
	PreviewID   string
	Content     json.RawMessage
}

// IsDeletion reports whether the change represents a deleted document.
func (c ContentChange) IsDeletion() bool {
	return !c.NodePresent && len(c.Content) == 0
}

// EditHooks is the registration surface of the external editing tool's
// bridge object. Each On* method installs exactly one callback; the bool
// returned by content-change and rerender callbacks reports whether the
// event was handled, in which case the tool's default re-render is
// suppressed.
type EditHooks interface {
	OnInit(callback func(success bool))
	OnRequestPreviewElement(callback func(previewID string))
	OnContentChange(callback func(change ContentChange) (handled bool))
	OnRerenderView(callback func() (handled bool))
	OnNavigationChange(callback func(newPagePreviewID string))

	// GetPreviewElement returns the preview id of the currently previewed
	// element, or an empty string when nothing is previewed.
	GetPreviewElement(ctx context.Context) (string, error)
}

// ChangeEvents is the backend confirmation event source. WaitFor blocks
// until an event correlated by previewID arrives or the timeout elapses;
// the timeout degrades to a best-effort success, never an error, so
// callers can never hang on a missing confirmation.
type ChangeEvents interface {
	WaitFor(ctx context.Context, previewID string, timeout time.Duration) (confirmed bool)
}
