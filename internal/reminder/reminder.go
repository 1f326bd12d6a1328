package reminder

import (
	"context"
	"time"

	"trade-gate/internal/logger"

	"github.com/robfig/cron/v3"
)

// Sender is the outbound message primitive the reminder needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// ActiveLister exposes the core's read-only active-user query.
type ActiveLister interface {
	ActiveUsers() []int64
}

// Scheduler nudges users with an unfinished session on a cron schedule.
// Sends are fire-and-forget; a failed nudge is logged and skipped.
type Scheduler struct {
	cron   *cron.Cron
	sender Sender
	lister ActiveLister
	text   string
}

func New(spec, text string, loc *time.Location, sender Sender, lister ActiveLister) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		sender: sender,
		lister: lister,
		text:   text,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }
func (s *Scheduler) Stop()  { s.cron.Stop() }

func (s *Scheduler) run() {
	users := s.lister.ActiveUsers()
	logger.Info("reminder fired", "users", len(users))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, id := range users {
		if err := s.sender.SendMessage(ctx, id, s.text); err != nil {
			logger.Warn("reminder send failed", "chat", id, "err", err)
		}
	}
}
