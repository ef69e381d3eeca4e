package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"taskchat/model"
)

// ErrConversationNotFound is returned for a conversation id that does not
// exist or belongs to another user.
var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is the metadata of one ledger.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Title     string    `json:"title" yaml:"title"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	TurnCount int       `json:"turn_count" yaml:"turn_count"`
}

// Ledger is the append-only conversation history.
type Ledger struct {
	db *sql.DB
}

const conversationColumns = `c.id, c.user_id, c.title, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM turns t WHERE t.conversation_id = c.id)`

func scanConversation(row rowScanner) (Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &c.TurnCount)
	return c, err
}

// CreateConversation starts a new ledger for userID. The title is derived
// from the first message.
func (l *Ledger) CreateConversation(ctx context.Context, userID, firstMessage string) (Conversation, error) {
	now := time.Now().UTC()
	c := Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     GenerateConversationName(firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := l.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	return c, nil
}

// Conversation loads one conversation owned by userID.
func (l *Ledger) Conversation(ctx context.Context, userID, id string) (Conversation, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations c WHERE c.id = ? AND c.user_id = ?`,
		id, userID,
	)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	return c, nil
}

// EnsureConversation resolves the conversation a request belongs to. An
// explicit id must exist and belong to userID. Without one, the user's most
// recently active conversation is reused, and a new one is created when the
// user has none.
func (l *Ledger) EnsureConversation(ctx context.Context, userID, id, firstMessage string) (Conversation, error) {
	if id != "" {
		return l.Conversation(ctx, userID, id)
	}

	row := l.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations c WHERE c.user_id = ?
		ORDER BY c.updated_at DESC, c.rowid DESC LIMIT 1`,
		userID,
	)
	c, err := scanConversation(row)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, sql.ErrNoRows):
		return l.CreateConversation(ctx, userID, firstMessage)
	default:
		return Conversation{}, fmt.Errorf("failed to find latest conversation: %w", err)
	}
}

// Conversations lists the user's conversations, most recently active first.
func (l *Ledger) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations c WHERE c.user_id = ?
		ORDER BY c.updated_at DESC, c.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	list := []Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Append adds a turn to the end of a conversation.
func (l *Ledger) Append(ctx context.Context, conversationID string, turn model.Turn) error {
	if turn.Role != model.RoleUser && turn.Role != model.RoleAssistant {
		return fmt.Errorf("invalid turn role %q", turn.Role)
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	calls, err := encodeJSON(turn.ToolCalls)
	if err != nil {
		return fmt.Errorf("failed to encode tool calls: %w", err)
	}
	deltas, err := encodeJSON(turn.TaskDeltas)
	if err != nil {
		return fmt.Errorf("failed to encode task deltas: %w", err)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		turn.Timestamp, conversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConversationNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO turns (conversation_id, role, content, tool_calls, task_deltas, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		conversationID, turn.Role, turn.Content, calls, deltas, turn.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	return tx.Commit()
}

// Recent returns the last limit turns of a conversation in append order.
// A limit of zero or less returns the whole conversation.
func (l *Ledger) Recent(ctx context.Context, conversationID string, limit int) ([]model.Turn, error) {
	query := `SELECT role, content, tool_calls, task_deltas, created_at FROM turns
		WHERE conversation_id = ? ORDER BY id DESC`
	args := []any{conversationID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	defer rows.Close()

	turns := []model.Turn{}
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func scanTurn(row rowScanner) (model.Turn, error) {
	var (
		turn          model.Turn
		calls, deltas string
	)
	if err := row.Scan(&turn.Role, &turn.Content, &calls, &deltas, &turn.Timestamp); err != nil {
		return model.Turn{}, fmt.Errorf("failed to scan turn: %w", err)
	}
	if err := decodeJSON(calls, &turn.ToolCalls); err != nil {
		return model.Turn{}, fmt.Errorf("failed to decode tool calls: %w", err)
	}
	if err := decodeJSON(deltas, &turn.TaskDeltas); err != nil {
		return model.Turn{}, fmt.Errorf("failed to decode task deltas: %w", err)
	}
	return turn, nil
}

func encodeJSON[T any](v []T) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(v)
	return string(data), err
}

func decodeJSON[T any](s string, out *[]T) error {
	if s == "" || s == "[]" {
		return nil
	}
	return json.Unmarshal([]byte(s), out)
}

// GenerateConversationName derives a conversation title from its first
// message.
func GenerateConversationName(firstMessage string) string {
	name := strings.Join(strings.Fields(firstMessage), " ")
	if utf8.RuneCountInString(name) > 30 {
		name = string([]rune(name)[:30]) + "..."
	}
	if name == "" {
		return fmt.Sprintf("Conversation %s", time.Now().Format("Jan 2, 3:04 PM"))
	}
	return name
}
