package briefing_test

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/m-mizutani/brief/pkg/model"
)

// mockLLM is a mock implementation of adapter.LLM for testing
type mockLLM struct {
	generateFunc func(ctx context.Context, prompt string, temperature float32) (string, error)
	prompts      []string
	temperatures []float32
}

func (m *mockLLM) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.temperatures = append(m.temperatures, temperature)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, temperature)
	}
	return "", errors.New("not implemented")
}

func (m *mockLLM) Model() string {
	return "mock-model"
}

func respondWith(text string) func(context.Context, string, float32) (string, error) {
	return func(context.Context, string, float32) (string, error) {
		return text, nil
	}
}

// mockRepository is an in-memory repository.Repository that counts calls
type mockRepository struct {
	briefings map[model.BriefingID]model.Briefing
	news      []*model.NewsRecord

	existsErr error
	listErr   error
	createErr error

	existsCalls int
	listCalls   int
	createCalls int
	lastLimit   int
}

func newMockRepository(news ...*model.NewsRecord) *mockRepository {
	return &mockRepository{
		briefings: make(map[model.BriefingID]model.Briefing),
		news:      news,
	}
}

func (m *mockRepository) BriefingExists(ctx context.Context, id model.BriefingID) (bool, error) {
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.briefings[id]
	return ok, nil
}

func (m *mockRepository) ListRecentNews(ctx context.Context, limit int) ([]*model.NewsRecord, error) {
	m.listCalls++
	m.lastLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.news) > limit {
		return m.news[:limit], nil
	}
	return m.news, nil
}

func (m *mockRepository) CreateBriefing(ctx context.Context, id model.BriefingID, briefing model.Briefing) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.briefings[id]; ok {
		return model.ErrBriefingExists
	}
	m.briefings[id] = briefing
	return nil
}

// mockStorage collects archived objects in memory
type mockStorage struct {
	objects map[string]*bytes.Buffer
	putErr  error
}

type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	if m.objects == nil {
		m.objects = make(map[string]*bytes.Buffer)
	}
	buf := &bytes.Buffer{}
	m.objects[key] = buf
	return bufferCloser{buf}, nil
}
