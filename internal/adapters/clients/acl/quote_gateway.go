package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-scheduler/internal/adapters/clients"
	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/platform/logging"
)

// QuoteServiceName identifies the quote API in errors, logs and health checks.
const QuoteServiceName = "quote-service"

const quotesPath = "/quotes"

// QuoteGatewayConfig contains configuration for the quote gateway.
type QuoteGatewayConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should point at the json-server root.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteGateway implements ports.QuoteGateway against a json-server style
// REST collection at /quotes.
type QuoteGateway struct {
	BaseAdapter
	logger *slog.Logger
}

// NewQuoteGateway creates a new quote gateway adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteGateway(cfg QuoteGatewayConfig) *QuoteGateway {
	if cfg.Client == nil {
		panic("QuoteGateway: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteGateway{
		BaseAdapter: NewBaseAdapter(cfg.Client, QuoteServiceName),
		logger:      logger.With(slog.String("component", "acl.QuoteGateway")),
	}
}

// wireQuote is the record shape stored by the quote API.
// This is an internal type - never exposed outside the ACL.
// Records written by the first web client use quote/quoteAuthor instead of
// text/author; both are read.
type wireQuote struct {
	ID             wireID     `json:"id"`
	Text           string     `json:"text"`
	Author         string     `json:"author"`
	LegacyText     string     `json:"quote"`
	LegacyAuthor   string     `json:"quoteAuthor"`
	ScheduledDates []wireDate `json:"scheduledDates"`
}

// wireQuoteBody is the request body for create and update.
// Create leaves ID nil so the field is omitted.
type wireQuoteBody struct {
	ID             *int64   `json:"id,omitempty"`
	Text           string   `json:"text"`
	Author         string   `json:"author"`
	ScheduledDates []string `json:"scheduledDates"`
}

// wireID accepts an id written as a JSON number or a numeric string.
type wireID struct {
	value int64
	set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *wireID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("quote id %s is not an integer", string(data))
	}

	id.value, id.set = n, true

	return nil
}

// wireDate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
type wireDate time.Time

// UnmarshalJSON implements json.Unmarshaler.
func (d *wireDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("scheduled date must be a string: %w", err)
	}

	if t, err := time.Parse(domain.DateLayout, raw); err == nil {
		*d = wireDate(t)
		return nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("scheduled date %q is neither %s nor RFC 3339", raw, domain.DateLayout)
	}

	*d = wireDate(t)

	return nil
}

// List fetches every stored quote.
// Implements ports.QuoteGateway.
func (g *QuoteGateway) List(ctx context.Context) ([]domain.Quote, error) {
	g.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", quotesPath))

	body, err := g.Get(ctx, quotesPath, "list quotes", 0)
	if err != nil {
		return nil, err
	}

	records, err := DecodeResponse[[]wireQuote](body)
	if err != nil {
		return nil, domain.NewUnavailableError(QuoteServiceName, err.Error())
	}

	quotes, err := TranslateSlice(*records, translateToDomain)
	if err != nil {
		return nil, domain.NewUnavailableError(QuoteServiceName, err.Error())
	}

	g.logger.DebugContext(ctx, "listed quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// Create posts a new quote without an id. The API-assigned id wins;
// if the response carries none, the proposed placeholder id is kept.
// Implements ports.QuoteGateway.
func (g *QuoteGateway) Create(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	payload, err := encodeBody(quote, false)
	if err != nil {
		return domain.Quote{}, err
	}

	body, err := g.Post(ctx, quotesPath, payload, "create quote", quote.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	created, err := g.decodeOne(body, quote)
	if err != nil {
		return domain.Quote{}, err
	}

	g.logger.Log(ctx, logging.LevelTrace, "translated created quote",
		slog.Int64("placeholder_id", quote.ID),
		slog.Int64("quote_id", created.ID))

	return created, nil
}

// Update replaces the quote stored under quote.ID.
// Implements ports.QuoteGateway.
func (g *QuoteGateway) Update(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	payload, err := encodeBody(quote, true)
	if err != nil {
		return domain.Quote{}, err
	}

	body, err := g.Put(ctx, quotePath(quote.ID), payload, "update quote", quote.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	return g.decodeOne(body, quote)
}

// Delete removes the quote stored under id and echoes the id.
// A quote the API no longer holds was already removed by another client,
// so a 404 resolves like a successful delete.
// Implements ports.QuoteGateway.
func (g *QuoteGateway) Delete(ctx context.Context, id int64) (int64, error) {
	body, err := g.BaseAdapter.Delete(ctx, quotePath(id), "delete quote", id)
	if domain.IsNotFound(err) {
		g.logger.DebugContext(ctx, "quote already deleted", slog.Int64("quote_id", id))
		return id, nil
	}
	if err != nil {
		return 0, err
	}

	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()

	return id, nil
}

// Name returns the health check name for this gateway.
// Implements ports.HealthChecker.
func (g *QuoteGateway) Name() string {
	return QuoteServiceName
}

// Check verifies the quote collection answers a minimal listing.
// Implements ports.HealthChecker.
func (g *QuoteGateway) Check(ctx context.Context) error {
	body, err := g.Get(ctx, quotesPath+"?_limit=1", "health check", 0)
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)

	return body.Close()
}

// decodeOne decodes the record returned by a create or update. A response
// without the quote text (an empty body or a bare acknowledgement) echoes
// sent, keeping any id the API assigned. A record without an id keeps
// sent's id.
func (g *QuoteGateway) decodeOne(body io.ReadCloser, sent domain.Quote) (domain.Quote, error) {
	record, err := DecodeResponse[wireQuote](body)
	if err != nil {
		return domain.Quote{}, domain.NewUnavailableError(QuoteServiceName, err.Error())
	}

	if record.Text == "" && record.LegacyText == "" {
		echoed := sent.Clone()
		if record.ID.set {
			echoed.ID = record.ID.value
		}

		g.logger.Debug("response carried no quote, keeping the sent one", slog.Int64("quote_id", echoed.ID))

		return echoed, nil
	}

	if !record.ID.set {
		record.ID = wireID{value: sent.ID, set: true}
	}

	return translateToDomain(record)
}

// translateToDomain converts a stored record to a domain Quote.
// Stored dates are trusted: past days are kept so they stay visible.
func translateToDomain(ext *wireQuote) (domain.Quote, error) {
	if !ext.ID.set {
		return domain.Quote{}, errors.New("quote record has no id")
	}

	dates := make([]time.Time, 0, len(ext.ScheduledDates))
	for _, d := range ext.ScheduledDates {
		dates = append(dates, time.Time(d))
	}

	text, author := ext.Text, ext.Author
	if text == "" {
		text = ext.LegacyText
	}
	if author == "" {
		author = ext.LegacyAuthor
	}

	return domain.Quote{
		ID:       ext.ID.value,
		Text:     text,
		Author:   author,
		Schedule: domain.NewScheduleSet(dates...),
	}, nil
}

// encodeBody renders quote in wire form. bytes.Reader lets the client
// rewind the body if a PUT is retried.
func encodeBody(quote domain.Quote, withID bool) (*bytes.Reader, error) {
	out := wireQuoteBody{
		Text:           quote.Text,
		Author:         quote.Author,
		ScheduledDates: quote.Schedule.Strings(),
	}

	if withID {
		id := quote.ID
		out.ID = &id
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding quote: %w", err)
	}

	return bytes.NewReader(data), nil
}

func quotePath(id int64) string {
	return quotesPath + "/" + strconv.FormatInt(id, 10)
}
