package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DefaultNewsCollection     = "analyzed_news"
	DefaultBriefingCollection = "daily_briefs"

	publishedField = "published"
)

// Firestore implements Repository
type Firestore struct {
	client             *firestore.Client
	newsCollection     string
	briefingCollection string
}

var _ Repository = (*Firestore)(nil)

// Option is a functional option for Firestore
type Option func(*Firestore)

// WithNewsCollection changes the collection news records are read from
func WithNewsCollection(name string) Option {
	return func(f *Firestore) {
		f.newsCollection = name
	}
}

// WithBriefingCollection changes the collection briefings are written to
func WithBriefingCollection(name string) Option {
	return func(f *Firestore) {
		f.briefingCollection = name
	}
}

// New creates a Firestore repository for the project and database
func New(ctx context.Context, projectID, databaseID string, clientOpts []option.ClientOption, opts ...Option) (*Firestore, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID),
			goerr.V("database", databaseID),
		)
	}

	f := &Firestore{
		client:             client,
		newsCollection:     DefaultNewsCollection,
		briefingCollection: DefaultBriefingCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Close releases the underlying client
func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) BriefingExists(ctx context.Context, id model.BriefingID) (bool, error) {
	doc, err := f.client.Collection(f.briefingCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get briefing",
			goerr.V("collection", f.briefingCollection),
			goerr.V("id", id),
		)
	}

	return doc.Exists(), nil
}

func (f *Firestore) ListRecentNews(ctx context.Context, limit int) ([]*model.NewsRecord, error) {
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	iter := f.client.Collection(f.newsCollection).
		OrderBy(publishedField, firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	records := make([]*model.NewsRecord, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate news",
				goerr.V("collection", f.newsCollection),
				goerr.V("limit", limit),
			)
		}

		records = append(records, model.NewsRecordFromData(doc.Ref.ID, doc.Data()))
	}

	return records, nil
}

func (f *Firestore) CreateBriefing(ctx context.Context, id model.BriefingID, briefing model.Briefing) error {
	if id == "" {
		return goerr.New("briefing ID is required")
	}

	_, err := f.client.Collection(f.briefingCollection).Doc(string(id)).Create(ctx, map[string]any(briefing))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrBriefingExists, "briefing was created by another run", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to create briefing",
			goerr.V("collection", f.briefingCollection),
			goerr.V("id", id),
		)
	}

	return nil
}
