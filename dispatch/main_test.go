package dispatch

import (
	"context"
	"path/filepath"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"taskchat/model"
	"taskchat/storage"
	"taskchat/tasks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// suggesterFunc adapts a function to Suggester.
type suggesterFunc func(ctx context.Context, utterance string, history []model.Turn, tools []mcptypes.Tool) (model.Suggestion, error)

func (f suggesterFunc) Suggest(ctx context.Context, utterance string, history []model.Turn, tools []mcptypes.Tool) (model.Suggestion, error) {
	return f(ctx, utterance, history, tools)
}

func suggesting(text string, calls ...model.ToolCall) Suggester {
	return suggesterFunc(func(context.Context, string, []model.Turn, []mcptypes.Tool) (model.Suggestion, error) {
		return model.Suggestion{Text: text, Calls: calls}, nil
	})
}

func failingSuggester(err error) Suggester {
	return suggesterFunc(func(context.Context, string, []model.Turn, []mcptypes.Tool) (model.Suggestion, error) {
		return model.Suggestion{}, err
	})
}

type harness struct {
	db      *storage.DB
	toolbox *tasks.Toolbox
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "taskchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &harness{db: db, toolbox: tasks.NewToolbox(db.Tasks())}
}

func (h *harness) dispatcher(s Suggester) *Dispatcher {
	return New(h.db.Ledger(), h.toolbox, NewResolver(s, zap.NewNop()), Options{}, zap.NewNop())
}

func (h *harness) seed(t *testing.T, userID string, title string, completed bool) tasks.Task {
	t.Helper()
	ctx := context.Background()
	task, err := h.toolbox.Create(ctx, userID, title, "")
	require.NoError(t, err)
	if completed {
		task, err = h.toolbox.Complete(ctx, userID, task.ID)
		require.NoError(t, err)
	}
	return task
}
