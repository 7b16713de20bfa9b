package repository

import (
	"context"

	"github.com/m-mizutani/brief/pkg/model"
)

// Repository defines the document store operations of a briefing run
type Repository interface {
	// BriefingExists reports whether a briefing document with the ID is stored
	BriefingExists(ctx context.Context, id model.BriefingID) (bool, error)

	// ListRecentNews returns up to limit news records, newest published first
	ListRecentNews(ctx context.Context, limit int) ([]*model.NewsRecord, error)

	// CreateBriefing stores the briefing only if no document with the ID exists.
	// It returns model.ErrBriefingExists otherwise.
	CreateBriefing(ctx context.Context, id model.BriefingID, briefing model.Briefing) error
}
