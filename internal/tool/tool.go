package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freshdesk_bridge/backend/internal/freshdesk"
	"github.com/freshdesk_bridge/backend/internal/models"
)

// ErrValidation marks input rejected before any network call.
var ErrValidation = errors.New("invalid input")

// ErrAuthorization marks a requester-identity mismatch: the caller's email
// does not match the ticket's requester.
var ErrAuthorization = errors.New("the provided requester email does not match the ticket's requester email")

// API is the slice of the Freshdesk client the tool needs. Tests substitute
// a fake; production wires *freshdesk.Client.
type API interface {
	CreateTicket(ctx context.Context, payload freshdesk.CreateTicketPayload) (models.Ticket, error)
	GetTicket(ctx context.Context, id int64) (models.Ticket, error)
	ListTicketsByEmail(ctx context.Context, email string) ([]models.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, fields map[string]any) (models.Ticket, error)
	AddNote(ctx context.Context, id int64, note models.Note) error
}

// Request is the tool invocation input: an action name plus that action's
// fields. Optional integers are pointers so "absent" and "zero" stay distinct.
type Request struct {
	Action         string   `json:"action" validate:"required"`
	TicketID       *int64   `json:"ticket_id,omitempty"`
	RequesterEmail string   `json:"requester_email,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Description    string   `json:"description,omitempty"`
	Name           string   `json:"name,omitempty"`
	Type           string   `json:"type,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Priority       *int     `json:"priority,omitempty"`
	Status         *int     `json:"status,omitempty"`
}

// Response is the dual payload the agent host expects: a machine-consumable
// output object plus citable sources.
type Response struct {
	Output  map[string]any `json:"output"`
	Sources []Source       `json:"sources"`
}

type Source struct {
	ToolCallDescription string       `json:"toolCallDescription"`
	Items               []SourceItem `json:"items"`
}

type SourceItem struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

const sourceTypeDocument = "SIMPLE_DOCUMENT"

// Tool dispatches the five Freshdesk actions. TicketTypes is the allow-list
// for the create action's type field, built once from configuration.
type Tool struct {
	API         API
	Domain      string
	TicketTypes []string
	Logger      zerolog.Logger
}

func (t *Tool) Invoke(ctx context.Context, req Request) (Response, error) {
	t.Logger.Info().Str("action", req.Action).Msg("tool invoked")
	switch req.Action {
	case "create_ticket":
		return t.createTicket(ctx, req)
	case "get_ticket_by_id":
		return t.getTicketByID(ctx, req)
	case "get_tickets_by_email":
		return t.getTicketsByEmail(ctx, req)
	case "close_ticket":
		return t.closeTicket(ctx, req)
	case "update_ticket_priority":
		return t.updateTicketPriority(ctx, req)
	default:
		return Response{}, fmt.Errorf("unknown action %q: %w", req.Action, ErrValidation)
	}
}

func (t *Tool) ticketURL(id int64) string {
	return fmt.Sprintf("https://%s/helpdesk/tickets/%d", t.Domain, id)
}

func (t *Tool) createTicket(ctx context.Context, req Request) (Response, error) {
	if req.Subject == "" {
		return Response{}, missingField("subject")
	}
	if req.Description == "" {
		return Response{}, missingField("description")
	}
	if req.RequesterEmail == "" {
		return Response{}, missingField("requester_email")
	}
	if req.Name == "" {
		return Response{}, missingField("name")
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		return Response{}, fmt.Errorf("priority must be one of: 1 (Low), 2 (Medium), 3 (High), 4 (Urgent): %w", ErrValidation)
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		return Response{}, fmt.Errorf("status must be one of: 2 (Open), 3 (Pending), 4 (Resolved), 5 (Closed): %w", ErrValidation)
	}
	if req.Type != "" && !t.allowedType(req.Type) {
		return Response{}, fmt.Errorf("type must be one of: %s: %w", strings.Join(t.TicketTypes, ", "), ErrValidation)
	}

	payload := freshdesk.CreateTicketPayload{
		Subject:     req.Subject,
		Description: req.Description,
		Email:       req.RequesterEmail,
		Name:        req.Name,
		Priority:    models.PriorityLow,
		Status:      models.StatusOpen,
		Type:        req.Type,
		Tags:        req.Tags,
	}
	if req.Priority != nil {
		payload.Priority = *req.Priority
	}
	if req.Status != nil {
		payload.Status = *req.Status
	}

	ticket, err := t.API.CreateTicket(ctx, payload)
	if err != nil {
		return Response{}, err
	}
	desc := fmt.Sprintf("Created Freshdesk ticket with subject: %s", req.Subject)
	return t.ticketResponse("Ticket created successfully", desc, ticket), nil
}

func (t *Tool) getTicketByID(ctx context.Context, req Request) (Response, error) {
	ticket, err := t.fetchAuthorized(ctx, req)
	if err != nil {
		return Response{}, err
	}
	desc := fmt.Sprintf("Retrieved Freshdesk ticket #%d", ticket.ID)
	return t.ticketResponse("Ticket retrieved successfully", desc, ticket), nil
}

func (t *Tool) getTicketsByEmail(ctx context.Context, req Request) (Response, error) {
	if req.RequesterEmail == "" {
		return Response{}, missingField("requester_email")
	}
	tickets, err := t.API.ListTicketsByEmail(ctx, req.RequesterEmail)
	if err != nil {
		return Response{}, err
	}

	items := make([]SourceItem, 0, len(tickets))
	for i := range tickets {
		tickets[i].URL = t.ticketURL(tickets[i].ID)
		items = append(items, SourceItem{
			Type:  sourceTypeDocument,
			Title: fmt.Sprintf("Ticket #%d", tickets[i].ID),
			URL:   tickets[i].URL,
		})
	}
	return Response{
		Output: map[string]any{
			"message": fmt.Sprintf("Found %d tickets for requester %s", len(tickets), req.RequesterEmail),
			"tickets": tickets,
		},
		Sources: []Source{{
			ToolCallDescription: fmt.Sprintf("Retrieved Freshdesk tickets for requester: %s", req.RequesterEmail),
			Items:               items,
		}},
	}, nil
}

func (t *Tool) closeTicket(ctx context.Context, req Request) (Response, error) {
	ticket, err := t.fetchAuthorized(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if ticket.Status == models.StatusClosed {
		desc := fmt.Sprintf("Checked status of Freshdesk ticket #%d", ticket.ID)
		return t.ticketResponse("Ticket is already closed", desc, ticket), nil
	}

	note := fmt.Sprintf("Ticket closed as requested by the original requester (%s)", req.RequesterEmail)
	updated, err := t.mutateAndAnnotate(ctx, ticket.ID, map[string]any{"status": models.StatusClosed}, note)
	if err != nil {
		return Response{}, err
	}
	desc := fmt.Sprintf("Closed Freshdesk ticket #%d", updated.ID)
	return t.ticketResponse("Ticket closed successfully", desc, updated), nil
}

func (t *Tool) updateTicketPriority(ctx context.Context, req Request) (Response, error) {
	if req.Priority == nil {
		return Response{}, missingField("priority")
	}
	if !models.ValidPriority(*req.Priority) {
		return Response{}, fmt.Errorf("priority must be one of: 1 (Low), 2 (Medium), 3 (High), 4 (Urgent): %w", ErrValidation)
	}

	ticket, err := t.fetchAuthorized(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if ticket.Priority == *req.Priority {
		desc := fmt.Sprintf("Checked priority of Freshdesk ticket #%d", ticket.ID)
		return t.ticketResponse("Ticket priority is already at the requested level", desc, ticket), nil
	}

	note := fmt.Sprintf("Ticket priority updated to %s as requested by the original requester (%s)",
		models.PriorityName(*req.Priority), req.RequesterEmail)
	updated, err := t.mutateAndAnnotate(ctx, ticket.ID, map[string]any{"priority": *req.Priority}, note)
	if err != nil {
		return Response{}, err
	}
	desc := fmt.Sprintf("Updated priority of Freshdesk ticket #%d to %d", updated.ID, *req.Priority)
	return t.ticketResponse("Ticket priority updated successfully", desc, updated), nil
}

// fetchAuthorized is the shared guard for the three id-scoped actions: fetch
// the ticket with its requester, then require the caller's email to match
// before anything else happens.
func (t *Tool) fetchAuthorized(ctx context.Context, req Request) (models.Ticket, error) {
	if req.TicketID == nil {
		return models.Ticket{}, missingField("ticket_id")
	}
	if req.RequesterEmail == "" {
		return models.Ticket{}, missingField("requester_email")
	}
	ticket, err := t.API.GetTicket(ctx, *req.TicketID)
	if err != nil {
		return models.Ticket{}, err
	}
	if ticket.Requester == nil || ticket.Requester.Email != req.RequesterEmail {
		return models.Ticket{}, ErrAuthorization
	}
	return ticket, nil
}

// mutateAndAnnotate applies a partial update and then appends the public
// audit note. The note is written after the update succeeds, never before.
func (t *Tool) mutateAndAnnotate(ctx context.Context, id int64, fields map[string]any, note string) (models.Ticket, error) {
	updated, err := t.API.UpdateTicket(ctx, id, fields)
	if err != nil {
		return models.Ticket{}, err
	}
	if err := t.API.AddNote(ctx, id, models.Note{Body: note, Private: false}); err != nil {
		return models.Ticket{}, err
	}
	return updated, nil
}

func (t *Tool) ticketResponse(message, description string, ticket models.Ticket) Response {
	ticket.URL = t.ticketURL(ticket.ID)
	return Response{
		Output: map[string]any{
			"message":   message,
			"ticket_id": ticket.ID,
			"url":       ticket.URL,
			"ticket":    ticket,
		},
		Sources: []Source{{
			ToolCallDescription: description,
			Items: []SourceItem{{
				Type:  sourceTypeDocument,
				Title: fmt.Sprintf("Ticket #%d", ticket.ID),
				URL:   ticket.URL,
			}},
		}},
	}
}

func (t *Tool) allowedType(ticketType string) bool {
	for _, allowed := range t.TicketTypes {
		if allowed == ticketType {
			return true
		}
	}
	return false
}

func missingField(name string) error {
	return fmt.Errorf("missing required field: %s: %w", name, ErrValidation)
}
