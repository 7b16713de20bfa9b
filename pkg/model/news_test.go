package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestNewsRecordFromData(t *testing.T) {
	published := time.Date(2024, 3, 5, 1, 2, 3, 0, time.UTC)

	t.Run("full record", func(t *testing.T) {
		r := model.NewsRecordFromData("n1", map[string]any{
			"published": published,
			"analysis": map[string]any{
				"summary_en": "Stocks rallied",
				"sentiment":  "positive",
			},
		})
		gt.Equal(t, r.ID, "n1")
		gt.Equal(t, r.SummaryEN, "Stocks rallied")
		gt.V(t, r.Published.Equal(published)).Equal(true)
		gt.V(t, r.HasSummary()).Equal(true)
	})

	t.Run("missing analysis", func(t *testing.T) {
		r := model.NewsRecordFromData("n2", map[string]any{"published": published})
		gt.Equal(t, r.SummaryEN, "")
		gt.V(t, r.HasSummary()).Equal(false)
	})

	t.Run("missing summary key", func(t *testing.T) {
		r := model.NewsRecordFromData("n3", map[string]any{
			"analysis": map[string]any{"summary_th": "..."},
		})
		gt.V(t, r.HasSummary()).Equal(false)
		gt.V(t, r.Published.IsZero()).Equal(true)
	})

	t.Run("mistyped summary", func(t *testing.T) {
		r := model.NewsRecordFromData("n4", map[string]any{
			"analysis": map[string]any{"summary_en": 42},
		})
		gt.V(t, r.HasSummary()).Equal(false)
	})

	t.Run("nil record", func(t *testing.T) {
		var r *model.NewsRecord
		gt.V(t, r.HasSummary()).Equal(false)
	})
}
