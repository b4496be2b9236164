package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// QuoteReader is the part of app.QuoteService the ops server reads.
type QuoteReader interface {
	Load(ctx context.Context) ([]domain.Quote, error)
	ScheduledOn(now time.Time) []domain.Quote
}

// HistoryReader reads the resolution journal.
type HistoryReader interface {
	History(ctx context.Context, limit int) ([]ports.Resolution, error)
}

// QuoteHandler serves the scheduler's view of the quote collection.
type QuoteHandler struct {
	quotes  QuoteReader
	history HistoryReader
	clock   clockwork.Clock
}

// NewQuoteHandler creates a new quote handler. history may be nil when the
// journal is disabled; a nil clock uses the real clock.
func NewQuoteHandler(quotes QuoteReader, history HistoryReader, clock clockwork.Clock) *QuoteHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &QuoteHandler{
		quotes:  quotes,
		history: history,
		clock:   clock,
	}
}

// Today handles GET /-/quotes/today[?date=YYYY-MM-DD][&refresh=true].
// It lists the held quotes scheduled on the day, reloading from the quote
// API first when refresh is set.
func (h *QuoteHandler) Today(c *gin.Context) {
	var q dto.TodayQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleError(c, err)
		return
	}

	day := domain.Today(h.clock.Now())
	if q.Date != "" {
		// Format already checked by the datetime tag.
		day, _ = time.Parse(domain.DateLayout, q.Date)
	}

	if q.Refresh {
		if _, err := h.quotes.Load(c.Request.Context()); err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewTodayResponse(day, h.quotes.ScheduledOn(day)))
}

// History handles GET /-/resolutions[?limit=N], newest first.
func (h *QuoteHandler) History(c *gin.Context) {
	var q dto.HistoryQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleError(c, err)
		return
	}

	rs, err := h.history.History(c.Request.Context(), q.Limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResolutionResponses(rs))
}

// RegisterRoutes registers the quote routes on rg. The history route is
// only registered when a journal is configured.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotes/today", h.Today)

	if h.history != nil {
		rg.GET("/resolutions", h.History)
	}
}
