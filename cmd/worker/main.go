package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Tariqai1/student-productivity-app/internal/attendance"
	"github.com/Tariqai1/student-productivity-app/internal/config"
	"github.com/Tariqai1/student-productivity-app/internal/logging"
	"github.com/Tariqai1/student-productivity-app/internal/mailer"
	"github.com/Tariqai1/student-productivity-app/internal/queue"
	"github.com/Tariqai1/student-productivity-app/internal/store"
)

const msgCheckoutReminder = "checkout_reminder"

type reminderJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Worker runs the evening attendance sweeps and drains the mail queue.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "tracker:mail")
	}

	repo := attendance.NewRepository(db.Client)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.BaseURL)
	if !mail.Enabled() {
		log.Warn().Msg("SMTP not configured, reminders will be dropped")
	}

	loc := cfg.Location()
	c := cron.New(cron.WithLocation(loc))

	// 21:30 reminder to everyone still In Progress today.
	_, err = c.AddFunc("30 21 * * *", func() {
		sweepReminders(ctx, log, repo, q, loc)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("reminder schedule failed")
	}

	// 22:00 hard close of any session still open.
	_, err = c.AddFunc("0 22 * * *", func() {
		autoClose(ctx, log, repo, loc)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("auto-close schedule failed")
	}

	c.Start()
	defer c.Stop()

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	log.Info().Str("tz", loc.String()).Msg("worker started")
	for msg := range messages {
		if msg.Type != msgCheckoutReminder {
			continue
		}
		var job reminderJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Error().Err(err).Msg("malformed reminder job")
			continue
		}
		if err := mail.SendCheckoutReminder(job.Email, job.Name); err != nil {
			log.Error().Err(err).Str("email", job.Email).Msg("reminder mail failed")
			continue
		}
		log.Info().Str("email", job.Email).Msg("reminder sent")
	}

	log.Info().Msg("worker stopped")
}

func sweepReminders(ctx context.Context, log zerolog.Logger, repo *attendance.Repository, q queue.Queue, loc *time.Location) {
	start, end := attendance.DayWindow(time.Now().In(loc), loc)
	contacts, err := repo.OpenSessionContacts(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("open session lookup failed")
		return
	}

	for _, contact := range contacts {
		body, err := json.Marshal(reminderJob{Email: contact.Email, Name: contact.FullName})
		if err != nil {
			continue
		}
		if err := q.Publish(ctx, queue.Message{Type: msgCheckoutReminder, Body: body}); err != nil {
			log.Error().Err(err).Str("email", contact.Email).Msg("reminder publish failed")
		}
	}
	log.Info().Int("students", len(contacts)).Msg("checkout reminders queued")
}

func autoClose(ctx context.Context, log zerolog.Logger, repo *attendance.Repository, loc *time.Location) {
	now := time.Now().In(loc)
	start, end := attendance.DayWindow(now, loc)
	closed, err := repo.ForceCloseOpenSessions(ctx, start, end, now)
	if err != nil {
		log.Error().Err(err).Msg("auto-close failed")
		return
	}
	log.Info().Int64("sessions", closed).Msg("open sessions auto-closed")
}
