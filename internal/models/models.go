package models

import "time"

// Freshdesk ticket status codes.
const (
	StatusOpen     = 2
	StatusPending  = 3
	StatusResolved = 4
	StatusClosed   = 5
)

// Freshdesk ticket priority codes.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

var priorityNames = map[int]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

var statusNames = map[int]string{
	StatusOpen:     "Open",
	StatusPending:  "Pending",
	StatusResolved: "Resolved",
	StatusClosed:   "Closed",
}

func ValidPriority(p int) bool {
	_, ok := priorityNames[p]
	return ok
}

func ValidStatus(s int) bool {
	_, ok := statusNames[s]
	return ok
}

func PriorityName(p int) string {
	return priorityNames[p]
}

type Requester struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type Ticket struct {
	ID          int64      `json:"id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description_text,omitempty"`
	Status      int        `json:"status"`
	Priority    int        `json:"priority"`
	Type        string     `json:"type,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Requester   *Requester `json:"requester,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`

	// Portal link, filled in by the tool layer before the ticket is
	// returned to the calling agent. Not part of the API payload.
	URL string `json:"url,omitempty"`
}

// Conversation is the projection kept by the extraction job. Decoding the
// API response into this struct drops every other field the API returns.
type Conversation struct {
	ID        int64  `json:"id"`
	BodyText  string `json:"body_text"`
	UpdatedAt string `json:"updated_at"`
	FromEmail string `json:"from_email"`
}

// Note is a write-only audit record appended after state-changing actions.
type Note struct {
	Body    string `json:"body"`
	Private bool   `json:"private"`
}
