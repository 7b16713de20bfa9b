package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/brief/pkg/usecase/briefing"
	"github.com/m-mizutani/brief/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"
)

func scheduleCommand() *cli.Command {
	var (
		cfg        config
		amSchedule string
		pmSchedule string
		limit      int64
		runTimeout time.Duration
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "am-schedule",
			Usage:       "Cron expression (UTC) of the AM briefing",
			Value:       "0 6 * * *",
			Sources:     cli.EnvVars("BRIEF_AM_SCHEDULE"),
			Destination: &amSchedule,
		},
		&cli.StringFlag{
			Name:        "pm-schedule",
			Usage:       "Cron expression (UTC) of the PM briefing",
			Value:       "0 12 * * *",
			Sources:     cli.EnvVars("BRIEF_PM_SCHEDULE"),
			Destination: &pmSchedule,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Number of latest news records used as context",
			Value:       briefing.DefaultPeriodLimit,
			Sources:     cli.EnvVars("BRIEF_LIMIT"),
			Destination: &limit,
		},
		&cli.DurationFlag{
			Name:        "run-timeout",
			Usage:       "Maximum duration of one scheduled run",
			Value:       15 * time.Minute,
			Sources:     cli.EnvVars("BRIEF_RUN_TIMEOUT"),
			Destination: &runTimeout,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "schedule",
		Usage: "Keep running and generate AM and PM briefings on a cron schedule",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			jobs := []scheduledJob{
				{expr: amSchedule, period: model.PeriodAM},
				{expr: pmSchedule, period: model.PeriodPM},
			}
			if err := validateSchedules(jobs); err != nil {
				return err
			}

			ctx, err := prepare(ctx, &cfg)
			if err != nil {
				return err
			}

			uc, closer, err := newUseCase(ctx, &cfg)
			if err != nil {
				return err
			}
			defer safeClose(ctx, closer)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runScheduler(ctx, uc, jobs, int(limit), runTimeout)
		},
	}
}

type scheduledJob struct {
	expr   string
	period model.Period
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func validateSchedules(jobs []scheduledJob) error {
	for _, job := range jobs {
		if _, err := scheduleParser.Parse(job.expr); err != nil {
			return goerr.Wrap(err, "invalid cron expression",
				goerr.V("period", string(job.period)),
				goerr.V("schedule", job.expr),
			)
		}
	}
	return nil
}

// runScheduler blocks until ctx is cancelled and waits for running jobs before returning
func runScheduler(ctx context.Context, uc *briefing.UseCase, jobs []scheduledJob, limit int, timeout time.Duration) error {
	logger := logging.From(ctx)
	c := cron.New(cron.WithLocation(time.UTC), cron.WithParser(scheduleParser))

	for _, job := range jobs {
		if _, err := c.AddFunc(job.expr, func() {
			runCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			result, err := uc.Run(runCtx, briefing.RunInput{Period: job.period, Limit: limit})
			if err != nil {
				logger.Error("scheduled run failed", logging.ErrAttr(err), "period", string(job.period))
				return
			}
			logger.Info("scheduled run finished",
				"briefing_id", string(result.ID),
				"outcome", string(result.Outcome),
			)
		}); err != nil {
			return goerr.Wrap(err, "failed to add schedule", goerr.V("schedule", job.expr))
		}
		logger.Info("briefing scheduled", "period", string(job.period), "schedule", job.expr)
	}

	c.Start()
	<-ctx.Done()

	logger.Info("stopping scheduler")
	<-c.Stop().Done()
	return nil
}
