package freshdesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/freshdesk_bridge/backend/internal/models"
)

// SearchPage is one page of search/tickets results. Tickets are kept as raw
// maps so the extraction job carries whatever projection the search endpoint
// returns, column for column.
type SearchPage struct {
	Total   int              `json:"total"`
	Results []map[string]any `json:"results"`
}

// SearchTickets fetches one page of the ticket search endpoint. The query is
// sent quoted, per the Freshdesk search syntax.
func (c *Client) SearchTickets(ctx context.Context, query string, page int) (SearchPage, error) {
	q := url.Values{}
	q.Set("query", `"`+query+`"`)
	q.Set("page", strconv.Itoa(page))

	var out SearchPage
	if err := c.do(ctx, http.MethodGet, "search/tickets", q, nil, &out); err != nil {
		return SearchPage{}, err
	}
	return out, nil
}

// ListConversations fetches the conversation thread of a ticket, projected
// down to the four fields the extraction dataset keeps.
func (c *Client) ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error) {
	var out []models.Conversation
	path := fmt.Sprintf("tickets/%d/conversations", ticketID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTicketPayload is the POST body for a new ticket.
type CreateTicketPayload struct {
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Priority    int      `json:"priority"`
	Status      int      `json:"status"`
	Type        string   `json:"type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (c *Client) CreateTicket(ctx context.Context, payload CreateTicketPayload) (models.Ticket, error) {
	var out models.Ticket
	if err := c.do(ctx, http.MethodPost, "tickets", nil, payload, &out); err != nil {
		return models.Ticket{}, err
	}
	return out, nil
}

// GetTicket fetches a single ticket with its requester embedded, so callers
// can check the requester's email before acting on the ticket.
func (c *Client) GetTicket(ctx context.Context, id int64) (models.Ticket, error) {
	q := url.Values{}
	q.Set("include", "requester")

	var out models.Ticket
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("tickets/%d", id), q, nil, &out); err != nil {
		return models.Ticket{}, err
	}
	return out, nil
}

func (c *Client) ListTicketsByEmail(ctx context.Context, email string) ([]models.Ticket, error) {
	q := url.Values{}
	q.Set("email", email)

	var out []models.Ticket
	if err := c.do(ctx, http.MethodGet, "tickets", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTicket sends a partial update (status or priority) for a ticket.
func (c *Client) UpdateTicket(ctx context.Context, id int64, fields map[string]any) (models.Ticket, error) {
	var out models.Ticket
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("tickets/%d", id), nil, fields, &out); err != nil {
		return models.Ticket{}, err
	}
	return out, nil
}

// AddNote appends a note to a ticket. Notes are the audit trail written after
// every mutating tool action; they are never read back.
func (c *Client) AddNote(ctx context.Context, id int64, note models.Note) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("tickets/%d/notes", id), nil, note, nil)
}
