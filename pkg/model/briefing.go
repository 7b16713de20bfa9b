package model

import (
	"maps"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidPeriod  = goerr.New("invalid period")
	ErrBriefingExists = goerr.New("briefing already exists")
)

// Field names of a briefing document
const (
	FieldMarketHeadline       = "market_headline"
	FieldMarketOverview       = "market_overview"
	FieldKeyDriversAndOutlook = "key_drivers_and_outlook"
	FieldMoversAndShakers     = "movers_and_shakers"

	FieldGeneratedAtUTC  = "generated_at_utc"
	FieldSourceNewsCount = "source_news_count"
	FieldPeriod          = "period"
)

// Period distinguishes the two scheduled runs of a day. The empty Period is used by
// the once-a-day briefing.
type Period string

const (
	PeriodNone Period = ""
	PeriodAM   Period = "AM"
	PeriodPM   Period = "PM"
)

// ParsePeriod converts a command line argument into a Period (case-insensitive)
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodAM:
		return PeriodAM, nil
	case PeriodPM:
		return PeriodPM, nil
	default:
		return PeriodNone, goerr.Wrap(ErrInvalidPeriod, "period must be AM or PM", goerr.V("period", s))
	}
}

// Validate checks if the period is one of the known values
func (p Period) Validate() error {
	switch p {
	case PeriodNone, PeriodAM, PeriodPM:
		return nil
	default:
		return goerr.Wrap(ErrInvalidPeriod, "unknown period", goerr.V("period", string(p)))
	}
}

type BriefingID string

// NewBriefingID derives the document ID from the UTC date of t and the period
func NewBriefingID(t time.Time, period Period) BriefingID {
	date := t.UTC().Format("2006-01-02")
	if period == PeriodNone {
		return BriefingID(date)
	}
	return BriefingID(date + "_" + string(period))
}

// Briefing is the JSON object returned by the LLM. Its shape is trusted as is; only the
// presence of the headline is checked before it is stored.
type Briefing map[string]any

// Valid reports whether the briefing can be stored
func (b Briefing) Valid() bool {
	if len(b) == 0 {
		return false
	}
	_, ok := b[FieldMarketHeadline]
	return ok
}

// Headline returns market_headline if it is a string
func (b Briefing) Headline() string {
	s, _ := b[FieldMarketHeadline].(string)
	return s
}

// Annotate returns a copy of the briefing with the fields added by this system.
// generated_at_utc is set by the Firestore server at write time.
func (b Briefing) Annotate(sourceNewsCount int, period Period) Briefing {
	doc := make(Briefing, len(b)+3)
	maps.Copy(doc, b)

	doc[FieldGeneratedAtUTC] = firestore.ServerTimestamp
	doc[FieldSourceNewsCount] = sourceNewsCount
	if period != PeriodNone {
		doc[FieldPeriod] = string(period)
	}
	return doc
}
