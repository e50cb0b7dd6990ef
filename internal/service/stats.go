package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/survivaldisc/internal/model"
	"github.com/sakif/survivaldisc/internal/repository"
)

// The node count and status banner are presentation constants for the admin
// dashboard, not measured values.
const (
	activeNodes  = 14
	serverStatus = "OPTIMAL"
)

// StatsService aggregates the account-wide numbers the admin dashboard shows.
type StatsService struct {
	accounts repository.AccountRepository
	files    repository.FileRepository
	logger   *slog.Logger
}

func NewStatsService(accounts repository.AccountRepository, files repository.FileRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		accounts: accounts,
		files:    files,
		logger:   logger,
	}
}

// Global returns totals across every account: user count, file count, and
// summed file sizes.
func (s *StatsService) Global(ctx context.Context) (*model.GlobalStats, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/stats: counting accounts: %w", err)
	}

	fileCount, totalBytes, err := s.files.GlobalTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/stats: totaling files: %w", err)
	}

	return &model.GlobalStats{
		UserCount:    len(accounts),
		FileCount:    fileCount,
		TotalBytes:   totalBytes,
		ActiveNodes:  activeNodes,
		ServerStatus: serverStatus,
	}, nil
}
