package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"taskchat/config"
	"taskchat/dispatch"
	"taskchat/provider"
	"taskchat/storage"
	"taskchat/tasks"
)

// app holds the services built once per command invocation.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	userID     string
	db         *storage.DB
	toolbox    *tasks.Toolbox
	dispatcher *dispatch.Dispatcher
}

func newApp(cfg *config.Config, logger *zap.Logger, userID string) (*app, error) {
	db, err := storage.Open(config.DatabasePath(cfg.DataDir()))
	if err != nil {
		return nil, err
	}
	toolbox := tasks.NewToolbox(db.Tasks())

	var suggester dispatch.Suggester
	if cfg.Dispatch.UseModel {
		p, err := provider.NewFromConfig(cfg, logger)
		if err != nil {
			logger.Warn("model suggestions disabled", zap.String("provider", cfg.Model.Provider), zap.Error(err))
		} else {
			suggester = provider.NewSuggester(p, cfg.Model.SystemPrompt, logger)
		}
	}

	d := dispatch.New(
		db.Ledger(),
		toolbox,
		dispatch.NewResolver(suggester, logger),
		dispatch.Options{HistoryLimit: cfg.Dispatch.HistoryLimit, ListLimit: cfg.Dispatch.ListLimit},
		logger,
	)

	return &app{
		cfg:        cfg,
		logger:     logger,
		userID:     userID,
		db:         db,
		toolbox:    toolbox,
		dispatcher: d,
	}, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.db.Close()
}

// conversation returns the named conversation, or the user's most recent
// one when id is empty. ok is false when the user has none.
func (a *app) conversation(ctx context.Context, id string) (storage.Conversation, bool, error) {
	ledger := a.db.Ledger()
	if id != "" {
		c, err := ledger.Conversation(ctx, a.userID, id)
		if err != nil {
			return storage.Conversation{}, false, err
		}
		return c, true, nil
	}

	list, err := ledger.Conversations(ctx, a.userID)
	if err != nil {
		return storage.Conversation{}, false, err
	}
	if len(list) == 0 {
		return storage.Conversation{}, false, nil
	}
	return list[0], true, nil
}

var errNoConversations = errors.New("no conversations yet")

func (a *app) mustConversation(ctx context.Context, id string) (storage.Conversation, error) {
	c, ok, err := a.conversation(ctx, id)
	if err != nil {
		return storage.Conversation{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	if !ok {
		return storage.Conversation{}, errNoConversations
	}
	return c, nil
}
