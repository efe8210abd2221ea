package service

import (
	"context"
	"time"

	"quizdeck/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- Shared mocks for service tests ---

type MockImportRepository struct {
	mock.Mock
}

func (m *MockImportRepository) GetOrCreateSource(ctx context.Context, src domain.Source) (*domain.Source, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Source), args.Error(1)
}

func (m *MockImportRepository) CreateImportBatch(ctx context.Context, batch domain.ImportBatch) (*domain.ImportBatch, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportBatch), args.Error(1)
}

func (m *MockImportRepository) GetTopicBySlug(ctx context.Context, slug string) (*domain.Topic, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockImportRepository) UpsertTopic(ctx context.Context, slug, name string) (*domain.Topic, error) {
	args := m.Called(ctx, slug, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockImportRepository) GetTopicCategory(ctx context.Context, slug string) (*domain.TopicCategory, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopicCategory), args.Error(1)
}

func (m *MockImportRepository) InsertTopicCategory(ctx context.Context, cat domain.TopicCategory) error {
	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *MockImportRepository) UpdateTopicCategory(ctx context.Context, cat domain.TopicCategory) error {
	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *MockImportRepository) CreateQuiz(ctx context.Context, quiz domain.Quiz) (*domain.Quiz, error) {
	args := m.Called(ctx, quiz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockImportRepository) UpsertQuestion(ctx context.Context, q domain.Question) (string, error) {
	args := m.Called(ctx, q)
	return args.String(0), args.Error(1)
}

func (m *MockImportRepository) ReplaceChoices(ctx context.Context, questionID string, choices []domain.Choice) error {
	args := m.Called(ctx, questionID, choices)
	return args.Error(0)
}

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) ListTopics(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error) {
	args := m.Called(ctx, industrySpecific)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopicListing), args.Error(1)
}

func (m *MockContentRepository) GetQuizBySlug(ctx context.Context, slug string) (*domain.Quiz, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockContentRepository) GetQuizMeta(ctx context.Context, slug string) (*domain.QuizMeta, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizMeta), args.Error(1)
}

func (m *MockContentRepository) GetQuestionsWithChoices(ctx context.Context, quizID string, offset, limit int) ([]domain.Question, error) {
	args := m.Called(ctx, quizID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockContentRepository) GetRandomQuestionsWithChoices(ctx context.Context, quizID string, count int, excludeIDs []string) ([]domain.Question, error) {
	args := m.Called(ctx, quizID, count, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

type MockIntegrityRepository struct {
	mock.Mock
}

func (m *MockIntegrityRepository) ListTopicCategories(ctx context.Context) ([]domain.TopicCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopicCategory), args.Error(1)
}

func (m *MockIntegrityRepository) GetTopicCategory(ctx context.Context, slug string) (*domain.TopicCategory, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopicCategory), args.Error(1)
}

func (m *MockIntegrityRepository) GetTopicName(ctx context.Context, slug string) (string, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

func (m *MockIntegrityRepository) UpdateTopicCategoryIdentity(ctx context.Context, oldSlug, newSlug, newName string) error {
	args := m.Called(ctx, oldSlug, newSlug, newName)
	return args.Error(0)
}

func (m *MockIntegrityRepository) DeleteTopicCategory(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// fakeTransactionManager runs the unit of work directly; rollback
// semantics are the real adapter's concern and are tested there.
type fakeTransactionManager struct {
	beginErr error
}

func (f *fakeTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(ctx)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
