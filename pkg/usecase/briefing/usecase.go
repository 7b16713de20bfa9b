package briefing

import (
	"time"

	"github.com/m-mizutani/brief/pkg/adapter"
	"github.com/m-mizutani/brief/pkg/repository"
)

const (
	// DefaultDailyLimit is the number of news records read for the once-a-day briefing
	DefaultDailyLimit = 15
	// DefaultPeriodLimit is the number of news records read for AM/PM briefings
	DefaultPeriodLimit = 30
)

// UseCase runs the briefing pipeline
type UseCase struct {
	repo    repository.Repository
	llm     adapter.LLM
	storage adapter.Storage
	now     func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage enables archiving written briefings
func WithStorage(s adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = s
	}
}

// WithClock replaces the time source used to derive the briefing ID
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// New creates a new briefing UseCase instance
func New(
	repo repository.Repository,
	llm adapter.LLM,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo: repo,
		llm:  llm,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
