package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/store"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/anthropic"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/graph"
)

// env bundles the external-service handles the chat and serve commands share.
type env struct {
	Graph *graph.Client
	LLM   *anthropic.Client
	Store *store.SQLiteStore
}

func initEnv(ctx context.Context, mode string) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	g, err := graph.NewClient(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, eris.Wrap(err, "connect graph")
	}

	llm := anthropic.NewClient(cfg.Anthropic.Key, anthropic.Config{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		Temperature:       cfg.Anthropic.Temperature,
		RequestsPerMinute: cfg.Anthropic.RequestsPerMinute,
	})

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		g.Close(ctx)
		return nil, eris.Wrap(err, "open transcript store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		g.Close(ctx)
		return nil, eris.Wrap(err, "migrate transcript store")
	}

	return &env{Graph: g, LLM: llm, Store: st}, nil
}

func (e *env) Close(ctx context.Context) {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close transcript store", zap.Error(err))
	}
	if err := e.Graph.Close(ctx); err != nil {
		zap.L().Warn("close graph driver", zap.Error(err))
	}
}
