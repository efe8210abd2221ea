package service

import (
	"context"
	"encoding/json"
	"time"

	"quizdeck/internal/cache"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"

	"go.uber.org/zap"
)

const (
	// MaxQuestionLimit caps one page of questions.
	MaxQuestionLimit = 1000
	// MaxRandomCount caps one random draw.
	MaxRandomCount = 50

	topicListTTL = 5 * time.Minute
	quizMetaTTL  = 5 * time.Minute
)

// ContentService serves the read side: topic catalogue, quiz lookup,
// and question retrieval. Topic listings and quiz metadata go through
// the cache; question pages and random draws always hit storage.
type ContentService struct {
	repo  domain.ContentRepository
	cache domain.Cache
}

// NewContentService creates a new ContentService. cacheClient may be
// nil to run uncached.
func NewContentService(repo domain.ContentRepository, cacheClient domain.Cache) *ContentService {
	return &ContentService{repo: repo, cache: cacheClient}
}

func topicListCacheKey(industrySpecific *bool) string {
	if industrySpecific == nil {
		return cache.GenerateCacheKey("content", "topics", "all")
	}
	flag := "false"
	if *industrySpecific {
		flag = "true"
	}
	return cache.GenerateCacheKey("content", "topics", "all", "industry", flag)
}

// GetTopics returns the topic catalogue, optionally filtered by
// category.
func (s *ContentService) GetTopics(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error) {
	key := topicListCacheKey(industrySpecific)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var listings []domain.TopicListing
			if err := json.Unmarshal([]byte(cached), &listings); err == nil {
				return listings, nil
			}
			logger.Get().Warn("discarding unreadable cached topic list", zap.String("key", key))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("topic list cache read failed", zap.Error(err))
		}
	}

	listings, err := s.repo.ListTopics(ctx, industrySpecific)
	if err != nil {
		return nil, domain.NewInternalError("failed to list topics", err)
	}

	s.cacheJSON(ctx, key, listings, topicListTTL)
	return listings, nil
}

// GetQuizMeta returns the canonical quiz for a topic slug with its
// active question count.
func (s *ContentService) GetQuizMeta(ctx context.Context, slug string) (*domain.QuizMeta, error) {
	if slug == "" {
		return nil, domain.NewInvalidInputError("quiz slug is required")
	}

	key := cache.GenerateCacheKey("content", "quiz_meta", slug)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var meta domain.QuizMeta
			if err := json.Unmarshal([]byte(cached), &meta); err == nil {
				return &meta, nil
			}
			logger.Get().Warn("discarding unreadable cached quiz meta", zap.String("key", key))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("quiz meta cache read failed", zap.Error(err))
		}
	}

	meta, err := s.repo.GetQuizMeta(ctx, slug)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if meta == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}

	s.cacheJSON(ctx, key, meta, quizMetaTTL)
	return meta, nil
}

// GetQuizQuestions returns one page of a quiz's active questions in
// position order. Offset is clamped to non-negative, limit to
// [1, MaxQuestionLimit].
func (s *ContentService) GetQuizQuestions(ctx context.Context, slug string, offset, limit int) ([]domain.Question, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > MaxQuestionLimit {
		limit = MaxQuestionLimit
	}

	quiz, err := s.getQuiz(ctx, slug)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.GetQuestionsWithChoices(ctx, quiz.ID, offset, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to get questions", err)
	}
	return questions, nil
}

// GetRandomQuestions draws up to count random active questions,
// excluding the given ids and backfilling any shortfall. Count is
// clamped to [1, MaxRandomCount].
func (s *ContentService) GetRandomQuestions(ctx context.Context, slug string, count int, excludeIDs []string) ([]domain.Question, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxRandomCount {
		count = MaxRandomCount
	}

	quiz, err := s.getQuiz(ctx, slug)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.GetRandomQuestionsWithChoices(ctx, quiz.ID, count, excludeIDs)
	if err != nil {
		return nil, domain.NewInternalError("failed to get random questions", err)
	}
	return questions, nil
}

func (s *ContentService) getQuiz(ctx context.Context, slug string) (*domain.Quiz, error) {
	if slug == "" {
		return nil, domain.NewInvalidInputError("quiz slug is required")
	}
	quiz, err := s.repo.GetQuizBySlug(ctx, slug)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(slug)
	}
	return quiz, nil
}

func (s *ContentService) cacheJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		logger.Get().Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
