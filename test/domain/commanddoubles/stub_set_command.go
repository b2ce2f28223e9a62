//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/monorhyme/internal/domain/commands"
	"github.com/rios0rios0/monorhyme/internal/domain/entities"
)

// StubSetCommand is a stub implementation of commands.Set.
type StubSetCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *commands.SetResult
	LastSettings     *entities.Settings
	LastOpts         commands.SetOptions
}

var _ commands.Set = (*StubSetCommand)(nil)

func (s *StubSetCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.SetOptions,
) (*commands.SetResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Result, s.ExecuteErr
}
