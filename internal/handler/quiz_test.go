package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/handler"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockContentService struct {
	GetTopicsFunc          func(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error)
	GetQuizMetaFunc        func(ctx context.Context, slug string) (*domain.QuizMeta, error)
	GetQuizQuestionsFunc   func(ctx context.Context, slug string, offset, limit int) ([]domain.Question, error)
	GetRandomQuestionsFunc func(ctx context.Context, slug string, count int, excludeIDs []string) ([]domain.Question, error)
}

func (m *MockContentService) GetTopics(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error) {
	return m.GetTopicsFunc(ctx, industrySpecific)
}
func (m *MockContentService) GetQuizMeta(ctx context.Context, slug string) (*domain.QuizMeta, error) {
	return m.GetQuizMetaFunc(ctx, slug)
}
func (m *MockContentService) GetQuizQuestions(ctx context.Context, slug string, offset, limit int) ([]domain.Question, error) {
	return m.GetQuizQuestionsFunc(ctx, slug, offset, limit)
}
func (m *MockContentService) GetRandomQuestions(ctx context.Context, slug string, count int, excludeIDs []string) ([]domain.Question, error) {
	return m.GetRandomQuestionsFunc(ctx, slug, count, excludeIDs)
}

type MockImportService struct {
	ImportDocumentFunc func(ctx context.Context, req service.ImportRequest) (*domain.ImportResult, error)
}

func (m *MockImportService) ImportDocument(ctx context.Context, req service.ImportRequest) (*domain.ImportResult, error) {
	return m.ImportDocumentFunc(ctx, req)
}

type MockIntegrityService struct {
	ValidateFunc func(ctx context.Context) (*domain.IntegrityReport, error)
	FixFunc      func(ctx context.Context) (*domain.IntegrityFixResult, error)
}

func (m *MockIntegrityService) Validate(ctx context.Context) (*domain.IntegrityReport, error) {
	return m.ValidateFunc(ctx)
}
func (m *MockIntegrityService) Fix(ctx context.Context) (*domain.IntegrityFixResult, error) {
	return m.FixFunc(ctx)
}

func setupApp(content handler.ContentService, importer handler.ImportService, integrity handler.IntegrityService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.NewQuizHandler(content, importer, integrity).RegisterRoutes(app)
	return app
}

func TestGetTopics(t *testing.T) {
	content := &MockContentService{
		GetTopicsFunc: func(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error) {
			assert.Nil(t, industrySpecific)
			return []domain.TopicListing{{Slug: "bash", Name: "Bash"}}, nil
		},
	}
	app := setupApp(content, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/topics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var topics []dto.TopicResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&topics))
	require.Len(t, topics, 1)
	assert.Equal(t, "bash", topics[0].Slug)
}

func TestGetTopics_FilterParsed(t *testing.T) {
	content := &MockContentService{
		GetTopicsFunc: func(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error) {
			require.NotNil(t, industrySpecific)
			assert.True(t, *industrySpecific)
			return []domain.TopicListing{}, nil
		},
	}
	app := setupApp(content, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/topics?industry_specific=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetQuizMeta_NotFoundMapsTo404(t *testing.T) {
	content := &MockContentService{
		GetQuizMetaFunc: func(ctx context.Context, slug string) (*domain.QuizMeta, error) {
			return nil, domain.NewQuizNotFoundError(slug)
		},
	}
	app := setupApp(content, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/quizzes/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), string(domain.CodeQuizNotFound))
}

func TestGetRandomQuestions_ParsesExcludeList(t *testing.T) {
	content := &MockContentService{
		GetRandomQuestionsFunc: func(ctx context.Context, slug string, count int, excludeIDs []string) ([]domain.Question, error) {
			assert.Equal(t, "bash-quiz", slug)
			assert.Equal(t, 5, count)
			assert.Equal(t, []string{"a", "b"}, excludeIDs)
			return []domain.Question{}, nil
		},
	}
	app := setupApp(content, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/quizzes/bash-quiz/questions/random?count=5&exclude=a,%20b", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestImportDocument(t *testing.T) {
	importer := &MockImportService{
		ImportDocumentFunc: func(ctx context.Context, req service.ImportRequest) (*domain.ImportResult, error) {
			assert.Equal(t, "bash", req.Slug)
			return &domain.ImportResult{QuizID: "01ABC", QuestionCount: 3}, nil
		},
	}
	app := setupApp(nil, importer, nil)

	body, _ := json.Marshal(dto.ImportRequest{Slug: "bash", Markdown: "## Bash\n#### Q1. x\n- [x] y\n"})
	req := httptest.NewRequest("POST", "/api/v1/admin/imports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 3, out.QuestionCount)
}

func TestImportDocument_ParseErrorMapsTo422(t *testing.T) {
	importer := &MockImportService{
		ImportDocumentFunc: func(ctx context.Context, req service.ImportRequest) (*domain.ImportResult, error) {
			return nil, domain.NewParseError(req.Slug)
		},
	}
	app := setupApp(nil, importer, nil)

	body, _ := json.Marshal(dto.ImportRequest{Slug: "bash", Markdown: "nothing"})
	req := httptest.NewRequest("POST", "/api/v1/admin/imports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestValidateIntegrity(t *testing.T) {
	integrity := &MockIntegrityService{
		ValidateFunc: func(ctx context.Context) (*domain.IntegrityReport, error) {
			return &domain.IntegrityReport{Valid: true, Issues: []domain.IntegrityIssue{}, TopicCount: 7}, nil
		},
	}
	app := setupApp(nil, nil, integrity)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/admin/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report domain.IntegrityReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.Valid)
	assert.Equal(t, 7, report.TopicCount)
}

func TestFixIntegrity(t *testing.T) {
	integrity := &MockIntegrityService{
		FixFunc: func(ctx context.Context) (*domain.IntegrityFixResult, error) {
			return &domain.IntegrityFixResult{
				Fixed:   1,
				Details: []domain.IntegrityFix{{Action: domain.FixUpdated, OldSlug: "BASH", NewSlug: "bash"}},
			}, nil
		},
	}
	app := setupApp(nil, nil, integrity)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/admin/integrity/fix", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.IntegrityFixResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Fixed)
}
