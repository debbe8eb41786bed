package translation

import (
	"context"
	"sync"

	"github.com/heartmarshall/anikor-backend/internal/domain"
	"github.com/heartmarshall/anikor-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockTranslationRepo struct {
	GetBySourceFunc func(ctx context.Context, source string) (*domain.Translation, error)
	CreateFunc      func(ctx context.Context, source, translated string) (*domain.Translation, error)
	UpsertFunc      func(ctx context.Context, source, translated string) (*domain.Translation, error)
}

func (m *mockTranslationRepo) GetBySource(ctx context.Context, source string) (*domain.Translation, error) {
	return m.GetBySourceFunc(ctx, source)
}

func (m *mockTranslationRepo) Create(ctx context.Context, source, translated string) (*domain.Translation, error) {
	return m.CreateFunc(ctx, source, translated)
}

func (m *mockTranslationRepo) Upsert(ctx context.Context, source, translated string) (*domain.Translation, error) {
	return m.UpsertFunc(ctx, source, translated)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLookup struct {
	FindFunc  func(ctx context.Context, source string) (*domain.Translation, error)
	PrimeFunc func(ctx context.Context, tr *domain.Translation)
}

func (m *mockLookup) Find(ctx context.Context, source string) (*domain.Translation, error) {
	return m.FindFunc(ctx, source)
}

func (m *mockLookup) Prime(ctx context.Context, tr *domain.Translation) {
	if m.PrimeFunc != nil {
		m.PrimeFunc(ctx, tr)
	}
}

// memMemo is an in-memory memo that records saves.
type memMemo struct {
	mu        sync.Mutex
	records   map[string]string
	saves     int
	refreshes int
	findErr   error
	saveErr   error
}

func newMemMemo(seed map[string]string) *memMemo {
	m := &memMemo{records: map[string]string{}}
	for k, v := range seed {
		m.records[k] = v
	}
	return m
}

func (m *memMemo) Find(_ context.Context, source string) (*domain.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	v, ok := m.records[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Translation{SourceText: source, TranslatedText: v}, nil
}

func (m *memMemo) Save(_ context.Context, source, translated string) (*domain.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saves++
	if existing, ok := m.records[source]; ok {
		return &domain.Translation{SourceText: source, TranslatedText: existing}, nil
	}
	m.records[source] = translated
	return &domain.Translation{SourceText: source, TranslatedText: translated}, nil
}

func (m *memMemo) Refresh(_ context.Context, source, translated string) (*domain.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.refreshes++
	m.records[source] = translated
	return &domain.Translation{SourceText: source, TranslatedText: translated}, nil
}

type call struct {
	prompt      string
	temperature float64
}

// scriptedModel answers Complete calls from a function and counts sessions.
type scriptedModel struct {
	mu         sync.Mutex
	calls      []call
	acquired   int
	closed     int
	acquireErr error
	reply      func(prompt string, temperature float64) (string, error)
}

func (m *scriptedModel) Acquire(context.Context) (provider.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.acquired++
	return &scriptedSession{model: m}, nil
}

func (m *scriptedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type scriptedSession struct {
	model *scriptedModel
}

func (s *scriptedSession) Complete(_ context.Context, prompt string, temperature float64) (string, error) {
	s.model.mu.Lock()
	s.model.calls = append(s.model.calls, call{prompt: prompt, temperature: temperature})
	reply := s.model.reply
	s.model.mu.Unlock()
	return reply(prompt, temperature)
}

func (s *scriptedSession) Close() error {
	s.model.mu.Lock()
	defer s.model.mu.Unlock()
	s.model.closed++
	return nil
}
