package ports

import "context"

// View is one of the two screens the presentation layer can show.
type View int

const (
	// ViewForm shows the create/edit form.
	ViewForm View = iota

	// ViewList shows the quote library.
	ViewList
)

// String returns a human-readable name for the view.
func (v View) String() string {
	switch v {
	case ViewForm:
		return "form"
	case ViewList:
		return "list"
	default:
		return "unknown"
	}
}

// Severity classifies a transient notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient message for the user.
type Notification struct {
	Severity Severity
	Message  string
}

// Presenter renders what the core exposes. Calls may arrive from any goroutine.
type Presenter interface {
	// Notify shows a transient message.
	Notify(ctx context.Context, n Notification)

	// ShowView switches the visible screen.
	ShowView(ctx context.Context, v View)
}

// Prompt is a question put to the user before a destructive action.
type Prompt struct {
	Title   string
	Message string
}

// Confirmer gates destructive actions such as discarding edits or deleting a quote.
type Confirmer interface {
	// Confirm returns true only if the user explicitly agreed.
	Confirm(ctx context.Context, p Prompt) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, p Prompt) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool {
	return f(ctx, p)
}
