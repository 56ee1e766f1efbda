package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/compoundjoy/server/internal/model"
	"github.com/compoundjoy/server/internal/repository"
	"github.com/compoundjoy/server/internal/storage"
)

// ExportService produces a JSON snapshot of the caller's ledger and can
// archive it in object storage.
type ExportService struct {
	goalRepo         repository.GoalRepository
	contributionRepo repository.ContributionRepository
	stats            *StatsService
	storage          storage.Storage
	guard            *Guard
}

// NewExportService accepts a nil store; Archive then reports ErrStorageDisabled.
func NewExportService(
	goalRepo repository.GoalRepository,
	contributionRepo repository.ContributionRepository,
	stats *StatsService,
	store storage.Storage,
	guard *Guard,
) *ExportService {
	return &ExportService{
		goalRepo:         goalRepo,
		contributionRepo: contributionRepo,
		stats:            stats,
		storage:          store,
		guard:            guard,
	}
}

func (s *ExportService) Snapshot(ctx context.Context) (*model.LedgerExport, error) {
	userID, err := s.guard.Caller(ctx)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.Goals(ctx, userID, repository.GoalSortRecent)
	if err != nil {
		return nil, err
	}

	export := &model.LedgerExport{
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		Goals:      make([]*model.GoalExport, 0, len(goals)),
	}

	for _, goal := range goals {
		contributions, err := s.contributionRepo.ByGoal(ctx, userID, goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load contributions for goal %s: %w", goal.ID, err)
		}
		export.Goals = append(export.Goals, &model.GoalExport{
			Goal:          goal,
			Contributions: contributions,
		})
	}

	export.Stats, err = s.stats.statsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return export, nil
}

// Archive stores a snapshot under exports/<user>/<timestamp>.json and returns
// a presigned download link. The object is removed again if no link can be
// issued.
func (s *ExportService) Archive(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	export, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", export.UserID, export.ExportedAt.Format("20060102T150405Z"))

	err = s.storage.Save(ctx, key, bytes.NewReader(data), "application/json")
	if err != nil {
		slog.Error("failed to archive export", "error", err, "user_id", export.UserID, "key", key)
		return "", err
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		// No link means the caller can never fetch the object.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Error("failed to remove unreachable export", "error", delErr, "key", key)
		}
		return "", err
	}

	slog.Info("ledger export archived", "user_id", export.UserID, "key", key, "goals", len(export.Goals))
	return url, nil
}
