package briefing

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/brief/pkg/adapter"
	"github.com/m-mizutani/brief/pkg/model"
	"github.com/m-mizutani/brief/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	summarySeparator = "\n\n---\n\n"
	temperature      = 0.4
)

//go:embed prompt/briefing.md
var briefingPromptRaw string

var briefingPromptTmpl = template.Must(template.New("briefing").Parse(briefingPromptRaw))

type periodWording struct {
	HeadlineGuide   string
	HeadlineExample string
	OutlookGuide    string
}

var wordings = map[model.Period]periodWording{
	model.PeriodNone: {
		HeadlineGuide:   "A concise, impactful headline summarizing the overall market sentiment for the day, in English.",
		HeadlineExample: "Tech Stocks Surge on Positive Inflation Data, Eyes on Fed Meeting",
		OutlookGuide:    "A forward-looking statement on what investors should watch out for next (e.g., upcoming reports, economic data).",
	},
	model.PeriodAM: {
		HeadlineGuide:   "A concise, impactful headline setting the tone for the session ahead, in English.",
		HeadlineExample: "Futures Point Higher as Investors Await CPI Report and Big Bank Earnings",
		OutlookGuide:    "A forward-looking statement on what investors should watch during today's session (e.g., data releases, earnings, central bank speakers).",
	},
	model.PeriodPM: {
		HeadlineGuide:   "A concise, impactful headline recapping how the market has moved so far today, in English.",
		HeadlineExample: "Mid-Day Update: Energy Leads Gains While Tech Slips After Yield Jump",
		OutlookGuide:    "A statement on what could drive the rest of the session and the next trading day.",
	},
}

// Generator turns news summaries into a Briefing with one LLM call. The period is
// fixed at construction and selects the instruction wording.
type Generator struct {
	llm    adapter.LLM
	period model.Period
}

// NewGenerator creates a Generator for the period
func NewGenerator(llm adapter.LLM, period model.Period) *Generator {
	return &Generator{
		llm:    llm,
		period: period,
	}
}

// BuildPrompt renders the instruction prompt for the summaries
func (g *Generator) BuildPrompt(summaries []string) (string, error) {
	wording, ok := wordings[g.period]
	if !ok {
		return "", goerr.Wrap(model.ErrInvalidPeriod, "no prompt wording for period", goerr.V("period", g.period))
	}

	var buf bytes.Buffer
	if err := briefingPromptTmpl.Execute(&buf, map[string]any{
		"Period":          string(g.period),
		"Context":         strings.Join(summaries, summarySeparator),
		"HeadlineGuide":   wording.HeadlineGuide,
		"HeadlineExample": wording.HeadlineExample,
		"OutlookGuide":    wording.OutlookGuide,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute briefing prompt template")
	}

	return buf.String(), nil
}

// Generate asks the LLM for a briefing. It never fails: an empty input, a failed call
// or an unparsable answer is logged and yields an empty Briefing.
func (g *Generator) Generate(ctx context.Context, summaries []string) model.Briefing {
	logger := logging.From(ctx)

	if len(summaries) == 0 {
		logger.Warn("no news summaries provided to generate briefing")
		return model.Briefing{}
	}

	briefing, err := g.generate(ctx, summaries)
	if err != nil {
		logger.Error("briefing generation failed", logging.ErrAttr(err))
		return model.Briefing{}
	}

	return briefing
}

func (g *Generator) generate(ctx context.Context, summaries []string) (model.Briefing, error) {
	logger := logging.From(ctx)

	prompt, err := g.BuildPrompt(summaries)
	if err != nil {
		return nil, err
	}

	logger.Info("sending briefing request", "model", g.llm.Model(), "summaries", len(summaries))
	started := time.Now()

	raw, err := g.llm.GenerateJSON(ctx, prompt, temperature)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request briefing", goerr.V("model", g.llm.Model()))
	}

	logger.Info("received briefing response", "elapsed", time.Since(started).Round(10*time.Millisecond))

	var briefing model.Briefing
	if err := json.Unmarshal([]byte(adapter.CleanJSON(raw)), &briefing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal briefing JSON", goerr.V("json", raw))
	}

	return briefing, nil
}
