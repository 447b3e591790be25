package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/graevsky/todo-notify-tg-bot/internal/domain"
)

// NotifierStore is the slice of the repository the one-shot scan uses.
type NotifierStore interface {
	DueNotifications(ctx context.Context, date, clock string) ([]domain.Notification, error)
	DeactivateNotification(ctx context.Context, id int64) error
}

// Notifier scans once per minute for active notifications scheduled at the
// current date and minute, delivers them and deactivates them.
//
// Deactivation happens only after a successful send. A transient delivery
// failure keeps the row active, so delivery is at-least-once: a crash between
// send and deactivate re-delivers on restart within the same minute, but a
// notification is never silently dropped. The reverse ordering would be
// at-most-once and could lose notifications on a flaky transport.
type Notifier struct {
	store    NotifierStore
	log      *zap.Logger
	sender   Sender
	loc      *time.Location
	interval time.Duration
}

func NewNotifier(store NotifierStore, log *zap.Logger, sender Sender, loc *time.Location, interval time.Duration) *Notifier {
	return &Notifier{store: store, log: log, sender: sender, loc: loc, interval: interval}
}

// Run ticks until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.log.Info("notifier loop stopping")
			return
		case <-ticker.C:
			n.tick(ctx, time.Now())
		}
	}
}

// tick delivers every notification due at the minute containing now. Each
// match is a separate message; one failed recipient does not block the rest.
func (n *Notifier) tick(ctx context.Context, now time.Time) {
	local := now.In(n.loc)
	date := local.Format(domain.DateLayout)
	clock := local.Format(domain.ClockLayout)

	due, err := n.store.DueNotifications(ctx, date, clock)
	if err != nil {
		n.log.Error("due notifications query failed", zap.Error(err),
			zap.String("date", date), zap.String("clock", clock))
		return
	}

	for _, ntf := range due {
		if err := n.sender.SendMessage(ntf.Owner, "Reminder: "+ntf.Name); err != nil {
			// Leave the row active; see the policy note on Notifier.
			n.log.Error("notification send failed", zap.Error(err),
				zap.Int64("chatID", ntf.Owner), zap.Int64("id", ntf.ID))
			continue
		}
		if err := n.store.DeactivateNotification(ctx, ntf.ID); err != nil {
			n.log.Error("deactivate after send failed", zap.Error(err), zap.Int64("id", ntf.ID))
		}
	}
}
