package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freshdesk_bridge/backend/internal/freshdesk"
	"github.com/freshdesk_bridge/backend/internal/models"
)

// Source is the slice of the Freshdesk client the extraction job uses.
type Source interface {
	SearchTickets(ctx context.Context, query string, page int) (freshdesk.SearchPage, error)
	ListConversations(ctx context.Context, ticketID int64) ([]models.Conversation, error)
}

// Row is one output record: the ticket's search projection plus the
// "conversations" column appended by the enrichment step.
type Row map[string]any

// Job produces a de-paginated snapshot of tickets matching the configured
// statuses, each enriched with its conversation thread.
type Job struct {
	Source   Source
	Statuses []string

	// MaxPages caps the pagination loop as a guard against an upstream
	// that never returns an empty page. Zero means no cap.
	MaxPages int

	Logger zerolog.Logger
}

// BuildStatusQuery joins the given status names into the search predicate:
// "status:a OR status:b", or the empty string when no statuses are given.
func BuildStatusQuery(statuses []string) string {
	terms := make([]string, 0, len(statuses))
	for _, s := range statuses {
		terms = append(terms, "status:"+s)
	}
	return strings.Join(terms, " OR ")
}

// Run fetches every matching ticket and enriches each with its conversations.
// A search failure aborts the whole run; a per-ticket conversation failure is
// logged and leaves that ticket with an empty conversations column.
func (j *Job) Run(ctx context.Context) ([]Row, error) {
	query := BuildStatusQuery(j.Statuses)
	j.Logger.Info().Str("query", query).Msg("fetching tickets")

	var tickets []map[string]any
	for page := 1; ; page++ {
		if j.MaxPages > 0 && page > j.MaxPages {
			j.Logger.Warn().Int("max_pages", j.MaxPages).Msg("page cap reached, stopping pagination")
			break
		}
		res, err := j.Source.SearchTickets(ctx, query, page)
		if err != nil {
			return nil, err
		}
		if len(res.Results) == 0 {
			j.Logger.Info().Int("pages", page).Msg("no more pages to fetch")
			break
		}
		j.Logger.Info().Int("page", page).Int("count", len(res.Results)).Msg("fetched tickets page")
		tickets = append(tickets, res.Results...)
	}
	j.Logger.Info().Int("total", len(tickets)).Msg("tickets fetched")

	rows := make([]Row, 0, len(tickets))
	for _, t := range tickets {
		row := Row(t)
		conversations := []models.Conversation{}
		if id, ok := ticketID(t); ok {
			convs, err := j.Source.ListConversations(ctx, id)
			if err != nil {
				j.Logger.Error().Err(err).Int64("ticket_id", id).Msg("failed to fetch conversations")
			} else if convs != nil {
				conversations = convs
			}
		}
		row["conversations"] = conversations
		rows = append(rows, row)
	}
	return rows, nil
}

func ticketID(t map[string]any) (int64, bool) {
	switch v := t["id"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	default:
		return 0, false
	}
}
