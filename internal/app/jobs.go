package app

import (
	"context"
	"fmt"

	"github.com/edvin/retailpos/internal/jobs"
)

const recountSchedule = "0 30 3 * * *"

// ScheduleJobs registers the periodic jobs the configured integrations need.
func (a *Application) ScheduleJobs(s *jobs.Scheduler) error {
	if a.Integrations.Catalog != nil && a.Integrations.Snapshot != nil && a.cfg.SnapshotSyncSchedule != "" {
		if err := s.Add("snapshot_sync", a.cfg.SnapshotSyncSchedule, func(ctx context.Context) error {
			_, err := a.Services.Inventory.SyncSnapshot(ctx)
			return err
		}); err != nil {
			return err
		}
	}

	if a.Integrations.OAuth != nil && a.cfg.TokenRefreshSchedule != "" {
		if err := s.Add("token_refresh", a.cfg.TokenRefreshSchedule, a.refreshToken); err != nil {
			return err
		}
	}

	return s.Add("folder_recount", recountSchedule, func(ctx context.Context) error {
		_, err := a.Services.Folder.RecalculateCounts(ctx)
		return err
	})
}

func (a *Application) refreshToken(ctx context.Context) error {
	if _, err := a.Integrations.OAuth.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh ghl token: %w", err)
	}
	return nil
}
