package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskchat/model"
	"taskchat/provider/testutil"
	"taskchat/tasks"
)

func TestSuggesterCollectsStream(t *testing.T) {
	mock := testutil.Replying("On it.", testutil.Call("add_task", map[string]any{"title": "Buy milk"}))
	s := NewSuggester(mock, "Be brief", nil)

	got, err := s.Suggest(context.Background(), "add buy milk", testutil.Conversation(), tasks.Tools())
	require.NoError(t, err)
	assert.Equal(t, "On it.", got.Text)
	require.Len(t, got.Calls, 1)
	assert.Equal(t, "add_task", got.Calls[0].Name)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	msgs := reqs[0]
	require.Len(t, msgs, 4, "system prompt + two history turns + utterance")
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Equal(t, "Be brief", msgs[0].Content)
	assert.Equal(t, model.RoleUser, msgs[3].Role)
	assert.Equal(t, "add buy milk", msgs[3].Content)
}

func TestSuggesterRecoversLeakedCalls(t *testing.T) {
	mock := testutil.Replying(`{"name": "complete_task", "arguments": {"task_id": 3}}`)
	s := NewSuggester(mock, "", nil)

	got, err := s.Suggest(context.Background(), "finish 3", nil, tasks.Tools())
	require.NoError(t, err)
	require.Len(t, got.Calls, 1)
	assert.Equal(t, "complete_task", got.Calls[0].Name)
	assert.Empty(t, got.Text)
}

func TestSuggesterIgnoresLeakedUnknownTools(t *testing.T) {
	text := `Use {"name": "drop_table", "arguments": {}} carefully`
	s := NewSuggester(testutil.Replying(text), "", nil)

	got, err := s.Suggest(context.Background(), "hi", nil, tasks.Tools())
	require.NoError(t, err)
	assert.Empty(t, got.Calls)
	assert.Equal(t, text, got.Text)
}

func TestSuggesterPropagatesProviderErrors(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewSuggester(testutil.Failing(boom), "", nil)

	_, err := s.Suggest(context.Background(), "hi", nil, tasks.Tools())
	assert.ErrorIs(t, err, boom)

	_, err = NewSuggester(nil, "", nil).Suggest(context.Background(), "hi", nil, nil)
	assert.Error(t, err)
}
