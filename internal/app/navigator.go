package app

import (
	"context"
	"sync"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// Navigator tracks which of the two views is visible and hands the quote
// being edited from the list to the form.
type Navigator struct {
	presenter ports.Presenter

	mu      sync.Mutex
	view    ports.View
	editing *domain.Quote
}

// NewNavigator returns a navigator showing the list view.
// A nil presenter discards view changes.
func NewNavigator(presenter ports.Presenter) *Navigator {
	if presenter == nil {
		presenter = nopPresenter{}
	}

	return &Navigator{presenter: presenter, view: ports.ViewList}
}

// View returns the visible view.
func (n *Navigator) View() ports.View {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.view
}

// OpenForm shows the form. A non-nil quote is handed over for editing;
// nil opens the form for a new quote.
func (n *Navigator) OpenForm(ctx context.Context, quote *domain.Quote) {
	n.mu.Lock()
	n.view = ports.ViewForm
	n.editing = nil
	if quote != nil {
		q := quote.Clone()
		n.editing = &q
	}
	n.mu.Unlock()

	n.presenter.ShowView(ctx, ports.ViewForm)
}

// ShowList shows the list and clears the handoff.
func (n *Navigator) ShowList(ctx context.Context) {
	n.mu.Lock()
	n.view = ports.ViewList
	n.editing = nil
	n.mu.Unlock()

	n.presenter.ShowView(ctx, ports.ViewList)
}

// Editing returns a copy of the quote handed to the form, if any.
func (n *Navigator) Editing() (domain.Quote, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.editing == nil {
		return domain.Quote{}, false
	}

	return n.editing.Clone(), true
}

type nopPresenter struct{}

func (nopPresenter) Notify(context.Context, ports.Notification) {}
func (nopPresenter) ShowView(context.Context, ports.View)       {}
