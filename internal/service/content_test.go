package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetTopics_Uncached(t *testing.T) {
	repo := new(MockContentRepository)
	svc := NewContentService(repo, nil)

	listings := []domain.TopicListing{
		{Slug: "bash", Name: "Bash"},
		{Slug: "go", Name: "Go"},
	}
	repo.On("ListTopics", mock.Anything, (*bool)(nil)).Return(listings, nil)

	result, err := svc.GetTopics(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, listings, result)
	repo.AssertExpectations(t)
}

func TestGetTopics_CacheHitSkipsRepository(t *testing.T) {
	repo := new(MockContentRepository)
	cacheMock := new(MockCache)
	svc := NewContentService(repo, cacheMock)

	listings := []domain.TopicListing{{Slug: "bash", Name: "Bash"}}
	payload, _ := json.Marshal(listings)
	cacheMock.On("Get", mock.Anything, "quizdeck:content:topics:all").Return(string(payload), nil)

	result, err := svc.GetTopics(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, listings, result)
	repo.AssertNotCalled(t, "ListTopics", mock.Anything, mock.Anything)
	cacheMock.AssertExpectations(t)
}

func TestGetTopics_CacheMissFillsCache(t *testing.T) {
	repo := new(MockContentRepository)
	cacheMock := new(MockCache)
	svc := NewContentService(repo, cacheMock)

	flag := true
	listings := []domain.TopicListing{{Slug: "finance", Name: "Finance", IndustrySpecific: true}}
	key := "quizdeck:content:topics:all:industry_true"

	cacheMock.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
	repo.On("ListTopics", mock.Anything, &flag).Return(listings, nil)
	cacheMock.On("Set", mock.Anything, key, mock.Anything, topicListTTL).Return(nil)

	result, err := svc.GetTopics(context.Background(), &flag)

	require.NoError(t, err)
	assert.Equal(t, listings, result)
	cacheMock.AssertExpectations(t)
}

func TestGetQuizMeta_NotFound(t *testing.T) {
	repo := new(MockContentRepository)
	svc := NewContentService(repo, nil)

	repo.On("GetQuizMeta", mock.Anything, "missing").Return(nil, nil)

	meta, err := svc.GetQuizMeta(context.Background(), "missing")

	assert.Nil(t, meta)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}

func TestGetQuizMeta_CachesResult(t *testing.T) {
	repo := new(MockContentRepository)
	cacheMock := new(MockCache)
	svc := NewContentService(repo, cacheMock)

	meta := &domain.QuizMeta{
		Quiz:          domain.Quiz{ID: util.NewULID(), Slug: "bash-quiz", CreatedAt: time.Now().UTC()},
		QuestionCount: 10,
	}
	key := "quizdeck:content:quiz_meta:bash-quiz"
	cacheMock.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
	repo.On("GetQuizMeta", mock.Anything, "bash-quiz").Return(meta, nil)
	cacheMock.On("Set", mock.Anything, key, mock.Anything, quizMetaTTL).Return(nil)

	result, err := svc.GetQuizMeta(context.Background(), "bash-quiz")

	require.NoError(t, err)
	assert.Equal(t, 10, result.QuestionCount)
	cacheMock.AssertExpectations(t)
}

func TestGetQuizQuestions_ClampsBounds(t *testing.T) {
	repo := new(MockContentRepository)
	svc := NewContentService(repo, nil)

	quiz := &domain.Quiz{ID: util.NewULID(), Slug: "bash-quiz"}
	repo.On("GetQuizBySlug", mock.Anything, "bash-quiz").Return(quiz, nil)
	repo.On("GetQuestionsWithChoices", mock.Anything, quiz.ID, 0, MaxQuestionLimit).
		Return([]domain.Question{}, nil)

	_, err := svc.GetQuizQuestions(context.Background(), "bash-quiz", -5, 100000)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetRandomQuestions_ClampsCount(t *testing.T) {
	repo := new(MockContentRepository)
	svc := NewContentService(repo, nil)

	quiz := &domain.Quiz{ID: util.NewULID(), Slug: "bash-quiz"}
	exclude := []string{util.NewULID()}
	repo.On("GetQuizBySlug", mock.Anything, "bash-quiz").Return(quiz, nil)
	repo.On("GetRandomQuestionsWithChoices", mock.Anything, quiz.ID, MaxRandomCount, exclude).
		Return([]domain.Question{}, nil)

	_, err := svc.GetRandomQuestions(context.Background(), "bash-quiz", 500, exclude)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetRandomQuestions_QuizMissing(t *testing.T) {
	repo := new(MockContentRepository)
	svc := NewContentService(repo, nil)

	repo.On("GetQuizBySlug", mock.Anything, "nope").Return(nil, nil)

	_, err := svc.GetRandomQuestions(context.Background(), "nope", 5, nil)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizNotFound, domainErr.Code)
}
