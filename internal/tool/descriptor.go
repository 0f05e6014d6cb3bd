package tool

import "strings"

// Descriptor is the registration document the agent host consumes: a
// description plus a JSON schema for the invocation input. The ticket-type
// enum is injected from configuration.
func Descriptor(ticketTypes []string) map[string]any {
	return map[string]any{
		"description": "Interacts with Freshdesk to create, retrieve, close, and update support tickets",
		"inputSchema": map[string]any{
			"$id":   "https://freshdesk-bridge/agents/tools/freshdesk/input",
			"title": "Input for the Freshdesk tool",
			"type":  "object",
			"properties": map[string]any{
				"action": map[string]any{
					"type":        "string",
					"enum":        []string{"create_ticket", "get_ticket_by_id", "get_tickets_by_email", "close_ticket", "update_ticket_priority"},
					"description": "The action to perform (create_ticket, get_ticket_by_id, get_tickets_by_email, close_ticket, or update_ticket_priority)",
				},
				"ticket_id": map[string]any{
					"type":        "integer",
					"description": "Ticket ID (required for get_ticket_by_id, close_ticket, or update_ticket_priority)",
				},
				"requester_email": map[string]any{
					"type":        "string",
					"description": "Requester's email address (required for get_ticket_by_id, get_tickets_by_email, close_ticket, or update_ticket_priority)",
				},
				"subject": map[string]any{
					"type":        "string",
					"description": "Ticket subject (required for create_ticket action)",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Ticket description (required for create_ticket action)",
				},
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the requester (required for create_ticket action)",
				},
				"type": map[string]any{
					"type":        "string",
					"enum":        ticketTypes,
					"description": "Ticket type (must be one of: " + strings.Join(ticketTypes, ", ") + ")",
				},
				"tags": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "List of tags to apply to the ticket",
				},
				"priority": map[string]any{
					"type":        "integer",
					"enum":        []int{1, 2, 3, 4},
					"description": "Ticket priority (1=Low, 2=Medium, 3=High, 4=Urgent)",
				},
				"status": map[string]any{
					"type":        "integer",
					"enum":        []int{2, 3, 4, 5},
					"description": "Ticket status (2=Open, 3=Pending, 4=Resolved, 5=Closed)",
				},
			},
			"required": []string{"action"},
		},
	}
}
