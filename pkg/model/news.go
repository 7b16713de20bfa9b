package model

import "time"

// NewsRecord is the part of an analyzed_news document this system reads
type NewsRecord struct {
	ID        string
	Published time.Time
	SummaryEN string
}

// NewsRecordFromData extracts a NewsRecord from raw Firestore document data.
// Missing or mistyped fields fall back to their zero value: an absent "analysis" map or
// "analysis.summary_en" key gives an empty SummaryEN.
func NewsRecordFromData(id string, data map[string]any) *NewsRecord {
	record := &NewsRecord{ID: id}

	if published, ok := data["published"].(time.Time); ok {
		record.Published = published
	}

	if analysis, ok := data["analysis"].(map[string]any); ok {
		if summary, ok := analysis["summary_en"].(string); ok {
			record.SummaryEN = summary
		}
	}

	return record
}

// HasSummary reports whether the record carries an English summary
func (r *NewsRecord) HasSummary() bool {
	return r != nil && r.SummaryEN != ""
}
