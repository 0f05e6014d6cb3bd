package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freshdesk_bridge/backend/internal/freshdesk"
	"github.com/freshdesk_bridge/backend/internal/models"
)

type fakeSource struct {
	pages         [][]map[string]any
	searchCalls   int
	searchErr     error
	conversations map[int64][]models.Conversation
	convErr       map[int64]error
	convCalls     int
}

func (f *fakeSource) SearchTickets(ctx context.Context, query string, page int) (freshdesk.SearchPage, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return freshdesk.SearchPage{}, f.searchErr
	}
	if page-1 >= len(f.pages) {
		return freshdesk.SearchPage{}, nil
	}
	return freshdesk.SearchPage{Results: f.pages[page-1]}, nil
}

func (f *fakeSource) ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error) {
	f.convCalls++
	if err, ok := f.convErr[ticketID]; ok {
		return nil, err
	}
	return f.conversations[ticketID], nil
}

func TestBuildStatusQuery(t *testing.T) {
	if q := BuildStatusQuery(nil); q != "" {
		t.Fatalf("expected empty query, got %q", q)
	}
	if q := BuildStatusQuery([]string{"2"}); q != "status:2" {
		t.Fatalf("unexpected query: %q", q)
	}
	if q := BuildStatusQuery([]string{"2", "3", "5"}); q != "status:2 OR status:3 OR status:5" {
		t.Fatalf("unexpected query: %q", q)
	}
}

func TestRunPaginatesUntilEmptyPage(t *testing.T) {
	src := &fakeSource{
		pages: [][]map[string]any{
			{{"id": float64(1)}, {"id": float64(2)}},
			{{"id": float64(3)}, {"id": float64(4)}},
			{{"id": float64(5)}},
		},
	}
	job := &Job{Source: src, Logger: zerolog.Nop()}
	rows, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	// Three full pages plus the empty terminator.
	if src.searchCalls != 4 {
		t.Fatalf("expected 4 search calls, got %d", src.searchCalls)
	}
	for i, row := range rows {
		if row["id"] != float64(i+1) {
			t.Fatalf("rows out of order at %d: %+v", i, row)
		}
	}
}

func TestRunAbortsOnSearchError(t *testing.T) {
	src := &fakeSource{searchErr: errors.New("boom")}
	job := &Job{Source: src, Logger: zerolog.Nop()}
	if _, err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunAttachesConversations(t *testing.T) {
	src := &fakeSource{
		pages: [][]map[string]any{{{"id": float64(7), "subject": "x"}}},
		conversations: map[int64][]models.Conversation{
			7: {{ID: 70, BodyText: "hi", FromEmail: "a@b.c"}},
		},
	}
	job := &Job{Source: src, Logger: zerolog.Nop()}
	rows, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	convs, ok := rows[0]["conversations"].([]models.Conversation)
	if !ok || len(convs) != 1 || convs[0].ID != 70 {
		t.Fatalf("unexpected conversations column: %+v", rows[0]["conversations"])
	}
}

func TestRunConversationFailureIsIsolated(t *testing.T) {
	src := &fakeSource{
		pages: [][]map[string]any{{{"id": float64(1)}, {"id": float64(2)}}},
		conversations: map[int64][]models.Conversation{
			2: {{ID: 20}},
		},
		convErr: map[int64]error{1: errors.New("conversation fetch failed")},
	}
	job := &Job{Source: src, Logger: zerolog.Nop()}
	rows, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("expected job to continue, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both tickets in output, got %d", len(rows))
	}
	first := rows[0]["conversations"].([]models.Conversation)
	if len(first) != 0 {
		t.Fatalf("expected empty conversations for failed ticket, got %+v", first)
	}
	second := rows[1]["conversations"].([]models.Conversation)
	if len(second) != 1 {
		t.Fatalf("expected conversations for healthy ticket, got %+v", second)
	}
}

func TestRunRespectsMaxPages(t *testing.T) {
	src := &fakeSource{
		pages: [][]map[string]any{
			{{"id": float64(1)}},
			{{"id": float64(2)}},
			{{"id": float64(3)}},
		},
	}
	job := &Job{Source: src, MaxPages: 2, Logger: zerolog.Nop()}
	rows, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows under the page cap, got %d", len(rows))
	}
	if src.searchCalls != 2 {
		t.Fatalf("expected 2 search calls, got %d", src.searchCalls)
	}
}

func TestRunTicketWithoutIDKeepsEmptyConversations(t *testing.T) {
	src := &fakeSource{
		pages: [][]map[string]any{{{"subject": "no id"}}},
	}
	job := &Job{Source: src, Logger: zerolog.Nop()}
	rows, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.convCalls != 0 {
		t.Fatalf("expected no conversation fetch without an id")
	}
	convs := rows[0]["conversations"].([]models.Conversation)
	if len(convs) != 0 {
		t.Fatalf("expected empty conversations, got %+v", convs)
	}
}
