package cron

import (
	"context"
	"encoding/json"
	"time"

	"gharseva/config"
	"gharseva/models"
	"gharseva/services/admin"
	"gharseva/services/notification"
	"gharseva/services/tasks"
	"gharseva/utils"

	bookingRepo "gharseva/database/repository/booking"
	catalogRepo "gharseva/database/repository/catalog"
	ratingRepo "gharseva/database/repository/rating"

	"github.com/hibiken/asynq"
	robcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker bundles the async task server and the periodic jobs.
type Worker struct {
	NotifSvc    notification.NotificationService
	AdminSvc    admin.AdminService
	BookingRepo bookingRepo.BookingRepository
	RatingRepo  ratingRepo.RatingRepository
	CatalogRepo catalogRepo.CatalogRepository
}

// Start launches the asynq server and the cron scheduler in background
// goroutines.
func (w *Worker) Start() {
	w.startTaskServer()
	w.startScheduler()
}

func (w *Worker) startTaskServer() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBroadcastSend, w.handleBroadcast)
	mux.HandleFunc(tasks.TypeBookingReminder, w.handleReminder)

	go func() {
		utils.GetLogger().Info("Starting async task worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				utils.GetLogger().Error("Task worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					utils.GetLogger().Fatal("Task worker exhausted retries")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func (w *Worker) handleBroadcast(ctx context.Context, task *asynq.Task) error {
	var p tasks.BroadcastPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("Broadcast task has invalid payload", zap.Error(err))
		return err
	}

	_, err := w.NotifSvc.DeliverBroadcast(ctx, p.BroadcastID, p.Title, p.Message, p.TargetAudience, p.UserIDs)
	if err != nil {
		utils.GetLogger().Error("Broadcast delivery failed",
			zap.String("broadcastId", p.BroadcastID), zap.Error(err))
	}
	return err
}

func (w *Worker) handleReminder(ctx context.Context, task *asynq.Task) error {
	var p tasks.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		utils.GetLogger().Error("Reminder task has invalid payload", zap.Error(err))
		return err
	}

	// The booking may have moved since the reminder was queued.
	booking, err := w.BookingRepo.GetByID(p.BookingID)
	if err != nil {
		return err
	}
	if booking == nil || models.IsTerminalStatus(booking.Status) {
		return nil
	}
	if booking.ScheduledDate != p.ScheduledDate || booking.ScheduledTime != p.ScheduledTime {
		// Rescheduled after queuing; the stale reminder is dropped.
		return nil
	}

	sevakID := ""
	if booking.SevakID != nil {
		sevakID = *booking.SevakID
	}
	return w.NotifSvc.SendReminder(ctx, booking.ID, booking.BookingNumber,
		booking.ResidentID, sevakID, booking.ScheduledDate, booking.ScheduledTime)
}

func (w *Worker) startScheduler() {
	c := robcron.New()

	// Hourly: lift expired temporary blacklists.
	if _, err := c.AddFunc("@hourly", func() {
		if _, err := w.AdminSvc.SweepExpiredBlacklists(); err != nil {
			utils.GetLogger().Error("Blacklist sweep failed", zap.Error(err))
		}
	}); err != nil {
		utils.GetLogger().Fatal("Failed to register blacklist sweep", zap.Error(err))
	}

	// Nightly: recompute service rating aggregates from source rows,
	// reconciling any drift in the incremental averages.
	if _, err := c.AddFunc("0 3 * * *", w.recomputeRatings); err != nil {
		utils.GetLogger().Fatal("Failed to register rating recompute", zap.Error(err))
	}

	c.Start()
	utils.GetLogger().Info("Started periodic job scheduler")
}

func (w *Worker) recomputeRatings() {
	aggregates, err := w.RatingRepo.AggregateByService()
	if err != nil {
		utils.GetLogger().Error("Rating recompute failed", zap.Error(err))
		return
	}

	updated := 0
	for _, agg := range aggregates {
		if err := w.CatalogRepo.SetRatingAggregates(agg.ServiceID, agg.Average, agg.Count); err != nil {
			utils.GetLogger().Error("Failed to write rating aggregate",
				zap.String("serviceId", agg.ServiceID), zap.Error(err))
			continue
		}
		updated++
	}
	utils.GetLogger().Info("Recomputed rating aggregates", zap.Int("services", updated))
}
