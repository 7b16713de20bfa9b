package briefing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/brief/pkg/utils/logging"
)

// Outcome tells how a run ended
type Outcome string

const (
	OutcomeWritten         Outcome = "written"
	OutcomeExists          Outcome = "exists"
	OutcomeNoSummaries     Outcome = "no_summaries"
	OutcomeInvalidBriefing Outcome = "invalid_briefing"
	OutcomeLookupFailed    Outcome = "lookup_failed"
	OutcomeQueryFailed     Outcome = "query_failed"
	OutcomeWriteFailed     Outcome = "write_failed"
)

// RunInput contains parameters of a single run
type RunInput struct {
	Period model.Period
	// Limit is the number of news records to read. Zero selects the default for the period.
	Limit int
}

// Result describes a finished run
type Result struct {
	ID              model.BriefingID
	Outcome         Outcome
	SourceNewsCount int
	Briefing        model.Briefing
}

// Run executes one briefing run: skip if the document exists, read recent summaries,
// generate, validate and create the document. Failures after startup are logged and
// reported through Result.Outcome; the returned error is reserved for invalid input.
func (u *UseCase) Run(ctx context.Context, input RunInput) (*Result, error) {
	if err := input.Period.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPeriodLimit
		if input.Period == model.PeriodNone {
			limit = DefaultDailyLimit
		}
	}

	id := model.NewBriefingID(u.now(), input.Period)
	logger := logging.From(ctx).With(
		"run_id", uuid.NewString(),
		"briefing_id", string(id),
	)
	if input.Period != model.PeriodNone {
		logger = logger.With("period", string(input.Period))
	}
	ctx = logging.With(ctx, logger)

	logger.Info("starting briefing run")
	result := &Result{ID: id}

	exists, err := u.repo.BriefingExists(ctx, id)
	if err != nil {
		logger.Error("failed to look up existing briefing", logging.ErrAttr(err))
		result.Outcome = OutcomeLookupFailed
		return result, nil
	}
	if exists {
		logger.Info("briefing already exists, nothing to do")
		result.Outcome = OutcomeExists
		return result, nil
	}

	logger.Info("fetching latest analyzed news", "limit", limit)
	records, err := u.repo.ListRecentNews(ctx, limit)
	if err != nil {
		logger.Error("failed to fetch news", logging.ErrAttr(err), "limit", limit)
		result.Outcome = OutcomeQueryFailed
		return result, nil
	}

	summaries := collectSummaries(records)
	if len(summaries) == 0 {
		logger.Warn("no news with summaries found", "records", len(records))
		result.Outcome = OutcomeNoSummaries
		return result, nil
	}
	logger.Info("found news summaries", "summaries", len(summaries), "records", len(records))

	briefing := NewGenerator(u.llm, input.Period).Generate(ctx, summaries)
	if !briefing.Valid() {
		logger.Error("LLM did not return a valid briefing, nothing was saved")
		result.Outcome = OutcomeInvalidBriefing
		return result, nil
	}

	doc := briefing.Annotate(len(summaries), input.Period)
	result.SourceNewsCount = len(summaries)
	result.Briefing = doc

	if err := u.repo.CreateBriefing(ctx, id, doc); err != nil {
		if errors.Is(err, model.ErrBriefingExists) {
			logger.Warn("briefing was written by a concurrent run, discarding this one")
			result.Outcome = OutcomeExists
			return result, nil
		}
		logger.Error("failed to save briefing", logging.ErrAttr(err))
		result.Outcome = OutcomeWriteFailed
		return result, nil
	}

	result.Outcome = OutcomeWritten
	logger.Info("briefing saved", "headline", briefing.Headline(), "source_news_count", len(summaries))

	if u.storage != nil {
		if err := u.archive(ctx, result, input.Period); err != nil {
			logger.Warn("failed to archive briefing", logging.ErrAttr(err))
		}
	}

	logger.Info("briefing run finished")
	return result, nil
}

// collectSummaries keeps non-empty English summaries in the order they were returned
func collectSummaries(records []*model.NewsRecord) []string {
	summaries := make([]string, 0, len(records))
	for _, r := range records {
		if r.HasSummary() {
			summaries = append(summaries, r.SummaryEN)
		}
	}
	return summaries
}
