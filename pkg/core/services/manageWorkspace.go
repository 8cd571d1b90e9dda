package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/workspace"
)

// InitWorkspace creates a workspace for the given month with empty grid and
// no profiles. An existing workspace is only replaced when force is set.
func InitWorkspace(ctx context.Context, store workspace.Store, logger *zap.Logger, year int, month time.Month, posts []string, force bool) (*workspace.Workspace, error) {
	if len(posts) == 0 {
		return nil, fmt.Errorf("at least one post is required")
	}

	if _, err := store.Load(ctx); err == nil && !force {
		return nil, fmt.Errorf("workspace already exists, use --force to replace it")
	}

	ws := workspace.New(year, month, posts)
	logger.Debug("Creating workspace",
		zap.Int("year", year),
		zap.Stringer("month", month),
		zap.Strings("posts", posts))

	if err := store.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	return ws, nil
}

// AdvanceMonth archives the current month and starts the next one
func AdvanceMonth(ctx context.Context, store workspace.Store, logger *zap.Logger) (*workspace.Workspace, error) {
	ws, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	from := fmt.Sprintf("%d-%02d", ws.Year, int(ws.Month))
	ws.Advance()
	logger.Info("Advanced workspace",
		zap.String("from", from),
		zap.String("to", fmt.Sprintf("%d-%02d", ws.Year, int(ws.Month))),
		zap.Int("history_months", len(ws.History)))

	if err := store.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	return ws, nil
}
