package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/brief/pkg/adapter"
	"github.com/m-mizutani/brief/pkg/repository"
	"github.com/m-mizutani/brief/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// config holds configuration values
type config struct {
	// Repository
	credentialsJSON    string
	project            string
	database           string
	newsCollection     string
	briefingCollection string

	// LLM
	llmProvider string
	llmAPIKey   string
	llmModel    string
	llmTimeout  time.Duration

	// Archive
	archiveBucket string

	// Logging
	logLevel  string
	logFormat string
}

// serviceAccount is the part of a service account key this tool reads
type serviceAccount struct {
	ProjectID string `json:"project_id"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "credentials-json",
			Usage:       "Service account key JSON for Firestore and Cloud Storage",
			Sources:     cli.EnvVars("GOOGLE_APPLICATION_CREDENTIALS_JSON"),
			Destination: &cfg.credentialsJSON,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID (default: project_id of the credentials)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "news-collection",
			Usage:       "Firestore collection of analyzed news",
			Value:       repository.DefaultNewsCollection,
			Sources:     cli.EnvVars("BRIEF_NEWS_COLLECTION"),
			Destination: &cfg.newsCollection,
		},
		&cli.StringFlag{
			Name:        "briefing-collection",
			Usage:       "Firestore collection briefings are written to",
			Value:       repository.DefaultBriefingCollection,
			Sources:     cli.EnvVars("BRIEF_BRIEFING_COLLECTION"),
			Destination: &cfg.briefingCollection,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket to keep a JSON copy of each briefing (optional)",
			Sources:     cli.EnvVars("BRIEF_ARCHIVE_BUCKET"),
			Destination: &cfg.archiveBucket,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("BRIEF_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       string(logging.FormatConsole),
			Sources:     cli.EnvVars("BRIEF_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (gemini, groq, claude)",
			Value:       adapter.ProviderGemini,
			Sources:     cli.EnvVars("BRIEF_LLM_PROVIDER"),
			Destination: &cfg.llmProvider,
		},
		&cli.StringFlag{
			Name:        "llm-api-key",
			Usage:       "API key of the LLM provider",
			Sources:     cli.EnvVars("BRIEF_LLM_API_KEY"),
			Destination: &cfg.llmAPIKey,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name (default: provider specific)",
			Sources:     cli.EnvVars("BRIEF_LLM_MODEL"),
			Destination: &cfg.llmModel,
		},
		&cli.DurationFlag{
			Name:        "llm-timeout",
			Usage:       "Timeout of a single LLM request, 0 to disable",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("BRIEF_LLM_TIMEOUT"),
			Destination: &cfg.llmTimeout,
		},
	}
}

// validate checks every required value before any client is created
func (cfg *config) validate() error {
	if _, err := cfg.projectID(); err != nil {
		return err
	}

	if cfg.llmAPIKey == "" {
		return goerr.New("llm-api-key is required (BRIEF_LLM_API_KEY)")
	}

	switch strings.ToLower(cfg.llmProvider) {
	case "", adapter.ProviderGemini, adapter.ProviderGroq, adapter.ProviderClaude:
	default:
		return goerr.Wrap(adapter.ErrUnknownProvider, "invalid llm-provider", goerr.V("provider", cfg.llmProvider))
	}

	return nil
}

// projectID parses the credentials and returns the project to use
func (cfg *config) projectID() (string, error) {
	if cfg.credentialsJSON == "" {
		return "", goerr.New("credentials-json is required (GOOGLE_APPLICATION_CREDENTIALS_JSON)")
	}

	var sa *serviceAccount
	if err := json.Unmarshal([]byte(cfg.credentialsJSON), &sa); err != nil {
		return "", goerr.Wrap(err, "failed to parse credentials JSON, it might be malformed")
	}
	if sa == nil {
		return "", goerr.New("credentials JSON must be an object")
	}

	if cfg.project != "" {
		return cfg.project, nil
	}
	if sa.ProjectID == "" {
		return "", goerr.New("project is required: set --project or use credentials with project_id")
	}
	return sa.ProjectID, nil
}

func (cfg *config) clientOptions() []option.ClientOption {
	return []option.ClientOption{
		option.WithCredentialsJSON([]byte(cfg.credentialsJSON)),
	}
}

// setupLogger installs the configured logger as default and into ctx
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.NewWithFormat(cfg.logLevel, logging.Format(cfg.logFormat), os.Stdout)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (*repository.Firestore, error) {
	projectID, err := cfg.projectID()
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(ctx, projectID, cfg.database, cfg.clientOptions(),
		repository.WithNewsCollection(cfg.newsCollection),
		repository.WithBriefingCollection(cfg.briefingCollection),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newLLM creates the LLM adapter of the configured provider
func (cfg *config) newLLM(ctx context.Context) (adapter.LLM, error) {
	llm, err := adapter.NewLLM(ctx, adapter.LLMConfig{
		Provider: cfg.llmProvider,
		APIKey:   cfg.llmAPIKey,
		Model:    cfg.llmModel,
		Timeout:  cfg.llmTimeout,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM client")
	}
	return llm, nil
}

// newStorage creates a new Storage adapter instance. It returns nil when no archive
// bucket is configured.
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.archiveBucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.archiveBucket, cfg.clientOptions())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
