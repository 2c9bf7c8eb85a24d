package remind

import (
	"context"

	"github.com/robfig/cron/v3"

	"crimedesk/config"
	"crimedesk/core/utils"
)

// Scheduler runs the reminder checker on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	checker *Checker
	logger  *utils.Logger
}

func NewScheduler(cfg config.SchedulerConfig, checker *Checker, logger *utils.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		checker: checker,
		logger:  logger,
	}
	if !cfg.Enabled {
		return s, nil
	}
	_, err := s.cron.AddFunc(cfg.CronSpec, func() {
		if _, err := s.checker.CheckDue(context.Background(), utils.NowUTC()); err != nil {
			s.logger.Errorf("scheduled reminder run: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
