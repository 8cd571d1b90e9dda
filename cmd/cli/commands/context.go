package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/internal/config"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/workspace"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Store    workspace.Store
	Holidays calendar.HolidayProvider
	Logger   *zap.Logger
	Ctx      context.Context
}
