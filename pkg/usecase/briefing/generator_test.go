package briefing_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/brief/pkg/usecase/briefing"
	"github.com/m-mizutani/gt"
)

const validResponse = `{"market_headline": "H", "market_overview": "O", "key_drivers_and_outlook": ["a","b","c"], "movers_and_shakers": ["AAPL"]}`

func TestGenerateEmptyInput(t *testing.T) {
	llm := &mockLLM{generateFunc: respondWith(validResponse)}
	gen := briefing.NewGenerator(llm, model.PeriodAM)

	result := gen.Generate(context.Background(), nil)
	gt.V(t, result.Valid()).Equal(false)
	gt.Equal(t, len(result), 0)
	gt.A(t, llm.prompts).Length(0)

	result = gen.Generate(context.Background(), []string{})
	gt.Equal(t, len(result), 0)
	gt.A(t, llm.prompts).Length(0)
}

func TestGeneratePrompt(t *testing.T) {
	llm := &mockLLM{generateFunc: respondWith(validResponse)}
	gen := briefing.NewGenerator(llm, model.PeriodNone)
	summaries := []string{
		"Fed holds rates steady.",
		"Oil climbs 3% on supply cuts.",
		"Chipmakers rally after earnings beat.",
	}

	result := gen.Generate(context.Background(), summaries)
	gt.V(t, result.Valid()).Equal(true)
	gt.A(t, llm.prompts).Length(1)

	prompt := llm.prompts[0]
	for _, s := range summaries {
		gt.S(t, prompt).Contains(s)
	}
	gt.S(t, prompt).Contains(strings.Join(summaries, "\n\n---\n\n"))
	gt.S(t, prompt).Contains("Daily Market Briefing")
	for _, key := range []string{"market_headline", "market_overview", "key_drivers_and_outlook", "movers_and_shakers"} {
		gt.S(t, prompt).Contains(key)
	}

	gt.A(t, llm.temperatures).Length(1)
	gt.Equal(t, llm.temperatures[0], float32(0.4))
}

func TestGeneratePromptVariesByPeriod(t *testing.T) {
	summaries := []string{"Stocks opened higher."}

	am, err := briefing.NewGenerator(&mockLLM{}, model.PeriodAM).BuildPrompt(summaries)
	gt.NoError(t, err)
	pm, err := briefing.NewGenerator(&mockLLM{}, model.PeriodPM).BuildPrompt(summaries)
	gt.NoError(t, err)

	gt.V(t, am == pm).Equal(false)

	gt.S(t, am).Contains("Morning Market Briefing")
	gt.S(t, am).Contains("forward-looking")
	gt.S(t, am).NotContains("Mid-Day")

	gt.S(t, pm).Contains("Mid-Day Market Update")
	gt.S(t, pm).Contains("so far today")
	gt.S(t, pm).NotContains("Morning Market Briefing")

	gt.S(t, am).Contains("Stocks opened higher.")
	gt.S(t, pm).Contains("Stocks opened higher.")
}

func TestBuildPromptUnknownPeriod(t *testing.T) {
	_, err := briefing.NewGenerator(&mockLLM{}, model.Period("NIGHT")).BuildPrompt([]string{"x"})
	gt.Error(t, err)
	gt.V(t, errors.Is(err, model.ErrInvalidPeriod)).Equal(true)
}

func TestGenerateFailures(t *testing.T) {
	testCases := []struct {
		name     string
		generate func(context.Context, string, float32) (string, error)
	}{
		{
			name: "LLM error",
			generate: func(context.Context, string, float32) (string, error) {
				return "", errors.New("connection reset")
			},
		},
		{
			name:     "not JSON",
			generate: respondWith("I cannot help with that."),
		},
		{
			name:     "JSON array",
			generate: respondWith(`["a", "b"]`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &mockLLM{generateFunc: tc.generate}
			result := briefing.NewGenerator(llm, model.PeriodPM).Generate(context.Background(), []string{"news"})
			gt.Equal(t, len(result), 0)
			gt.A(t, llm.prompts).Length(1)
		})
	}
}

func TestGenerateFencedResponse(t *testing.T) {
	llm := &mockLLM{generateFunc: respondWith("```json\n" + validResponse + "\n```")}
	result := briefing.NewGenerator(llm, model.PeriodAM).Generate(context.Background(), []string{"news"})

	gt.V(t, result.Valid()).Equal(true)
	gt.Equal(t, result.Headline(), "H")
	gt.Map(t, result).HasKey("movers_and_shakers")
}
