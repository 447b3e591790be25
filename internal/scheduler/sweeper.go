package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// SweeperStore is the slice of the repository the retention sweep uses.
type SweeperStore interface {
	DeleteDoneTasks(ctx context.Context) (int64, error)
	DeleteInactiveNotifications(ctx context.Context) (int64, error)
}

// Sweeper bounds table growth by purging terminal-state rows: completed
// tasks and deactivated notifications. Open tasks and active notifications
// are never touched. Each pass is idempotent; the cron runner in app drives
// it on the configured period.
type Sweeper struct {
	store SweeperStore
	log   *zap.Logger
}

func NewSweeper(store SweeperStore, log *zap.Logger) *Sweeper {
	return &Sweeper{store: store, log: log}
}

// Sweep runs one purge pass. The two deletions are independent; a failure in
// one does not stop the other.
func (s *Sweeper) Sweep(ctx context.Context) {
	tasks, err := s.store.DeleteDoneTasks(ctx)
	if err != nil {
		s.log.Error("sweep done tasks failed", zap.Error(err))
	}

	ntfs, err := s.store.DeleteInactiveNotifications(ctx)
	if err != nil {
		s.log.Error("sweep inactive notifications failed", zap.Error(err))
	}

	if tasks > 0 || ntfs > 0 {
		s.log.Info("sweep completed", zap.Int64("tasks", tasks), zap.Int64("notifications", ntfs))
	}
}
