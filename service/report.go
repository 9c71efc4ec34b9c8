package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"supportchat/model"
)

type StatsSource interface {
	CountSince(ctx context.Context, since time.Time) (model.Stats, error)
}

// ReportService summarizes recent chat activity. It is run by cron.
type ReportService struct {
	Store  StatsSource
	Logger *logrus.Logger
	// Mailer is optional; without it the report is only logged.
	Mailer SupportMailer
	Window time.Duration
	Now    func() time.Time
}

func (r *ReportService) Run(ctx context.Context) (model.Stats, error) {
	r.Logger.Infof("[%s] Start scheduled task UsageReport", "scheduled task")

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	window := r.Window
	if window <= 0 {
		window = 24 * time.Hour
	}

	stats, err := r.Store.CountSince(ctx, now().Add(-window))
	if err != nil {
		r.Logger.Warnf("[%s] count activity error, %s", "scheduled task", err)
		return stats, err
	}

	summary := fmt.Sprintf("Since %s: %d new sessions, %d new messages",
		stats.Since.UTC().Format(time.RFC3339), stats.Sessions, stats.Messages)
	r.Logger.Infof("[%s] %s", "scheduled task", summary)

	if r.Mailer != nil {
		if err := r.Mailer.SendSupport(ctx, "Support chat usage report", summary+"\n"); err != nil {
			r.Logger.Warnf("[%s] send report error, %s", "scheduled task", err)
			return stats, err
		}
	}
	r.Logger.Infof("[%s] Finished scheduled task UsageReport", "scheduled task")
	return stats, nil
}
