package briefing

import (
	"context"
	"encoding/json"
	"maps"
	"time"

	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

type archiveRecord struct {
	ID              model.BriefingID `json:"id"`
	Period          model.Period     `json:"period,omitempty"`
	SourceNewsCount int              `json:"source_news_count"`
	GeneratedAt     time.Time        `json:"generated_at_utc"`
	Briefing        model.Briefing   `json:"briefing"`
}

// archive writes a JSON copy of a stored briefing. The Firestore server timestamp is
// not known here, so the local clock stands in for it.
func (u *UseCase) archive(ctx context.Context, result *Result, period model.Period) error {
	content := make(model.Briefing, len(result.Briefing))
	maps.Copy(content, result.Briefing)
	delete(content, model.FieldGeneratedAtUTC)
	delete(content, model.FieldSourceNewsCount)
	delete(content, model.FieldPeriod)

	record := archiveRecord{
		ID:              result.ID,
		Period:          period,
		SourceNewsCount: result.SourceNewsCount,
		GeneratedAt:     u.now().UTC(),
		Briefing:        content,
	}

	w, err := u.storage.Put(ctx, string(result.ID)+".json")
	if err != nil {
		return goerr.Wrap(err, "failed to open archive object", goerr.V("id", result.ID))
	}

	if err := json.NewEncoder(w).Encode(record); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode archive record", goerr.V("id", result.ID))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit archive object", goerr.V("id", result.ID))
	}

	return nil
}
