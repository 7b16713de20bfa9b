package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/brief/pkg/usecase/briefing"
	"github.com/m-mizutani/brief/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Number of latest news records used as context",
			Value:       briefing.DefaultPeriodLimit,
			Sources:     cli.EnvVars("BRIEF_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "run",
		Usage:     "Generate the AM or PM briefing of today (UTC)",
		ArgsUsage: "<AM|PM>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one argument is required: AM or PM")
			}
			period, err := model.ParsePeriod(c.Args().First())
			if err != nil {
				return err
			}

			return execute(ctx, &cfg, briefing.RunInput{
				Period: period,
				Limit:  int(limit),
			})
		},
	}
}

func dailyCommand() *cli.Command {
	var (
		cfg   config
		limit int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Number of latest news records used as context",
			Value:       briefing.DefaultDailyLimit,
			Sources:     cli.EnvVars("BRIEF_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "daily",
		Usage: "Generate the once-a-day briefing of today (UTC)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Present() {
				return goerr.New("daily takes no arguments", goerr.V("args", c.Args().Slice()))
			}

			return execute(ctx, &cfg, briefing.RunInput{
				Period: model.PeriodNone,
				Limit:  int(limit),
			})
		},
	}
}

// execute validates configuration, builds the clients and performs one run. Only
// configuration and client construction errors are returned; the outcome of the run
// itself is logged.
func execute(ctx context.Context, cfg *config, input briefing.RunInput) error {
	ctx, err := prepare(ctx, cfg)
	if err != nil {
		return err
	}

	uc, closer, err := newUseCase(ctx, cfg)
	if err != nil {
		return err
	}
	defer safeClose(ctx, closer)

	result, err := uc.Run(ctx, input)
	if err != nil {
		return goerr.Wrap(err, "failed to run briefing")
	}

	logging.From(ctx).Info("briefing worker finished",
		"briefing_id", string(result.ID),
		"outcome", string(result.Outcome),
	)
	return nil
}

// prepare performs every startup check and installs the configured logger
func prepare(ctx context.Context, cfg *config) (context.Context, error) {
	if err := cfg.validate(); err != nil {
		return ctx, err
	}
	return cfg.setupLogger(ctx), nil
}

// newUseCase creates the clients of a run. The returned closer releases them.
func newUseCase(ctx context.Context, cfg *config) (*briefing.UseCase, io.Closer, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	llm, err := cfg.newLLM(ctx)
	if err != nil {
		safeClose(ctx, repo)
		return nil, nil, err
	}

	opts := []briefing.Option{}
	storage, err := cfg.newStorage(ctx)
	if err != nil {
		safeClose(ctx, repo)
		return nil, nil, err
	}
	if storage != nil {
		opts = append(opts, briefing.WithStorage(storage))
	}

	logging.From(ctx).Info("briefing worker setup complete",
		"provider", cfg.llmProvider,
		"model", llm.Model(),
		"database", cfg.database,
	)

	return briefing.New(repo, llm, opts...), repo, nil
}

func safeClose(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("failed to close client", logging.ErrAttr(err))
	}
}
