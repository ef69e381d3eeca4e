package storage

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// TurnMatch is a search hit within a user's conversation history.
type TurnMatch struct {
	ConversationID    string
	ConversationTitle string
	Role              string
	Content           string
	Preview           string
	Timestamp         time.Time
	Score             int
}

type turnSource []TurnMatch

func (s turnSource) String(i int) string { return s[i].Content }
func (s turnSource) Len() int            { return len(s) }

// Search fuzzy-matches query against every turn the user has sent or
// received. Best matches come first; limit <= 0 means no limit.
func (l *Ledger) Search(ctx context.Context, userID, query string, limit int) ([]TurnMatch, error) {
	if query == "" {
		return []TurnMatch{}, nil
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT c.id, c.title, t.role, t.content, t.created_at
		FROM turns t JOIN conversations c ON c.id = t.conversation_id
		WHERE c.user_id = ? ORDER BY t.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns for search: %w", err)
	}
	defer rows.Close()

	var candidates turnSource
	for rows.Next() {
		var m TurnMatch
		if err := rows.Scan(&m.ConversationID, &m.ConversationTitle, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		candidates = append(candidates, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := fuzzy.FindFrom(query, candidates)

	matches := make([]TurnMatch, 0, len(results))
	for _, r := range results {
		m := candidates[r.Index]
		m.Score = r.Score
		m.Preview = preview(m.Content, 100)
		matches = append(matches, m)
		if limit > 0 && len(matches) == limit {
			break
		}
	}

	return matches, nil
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
