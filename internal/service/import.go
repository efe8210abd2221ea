package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"quizdeck/internal/cache"
	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/parser"
	"quizdeck/internal/topicname"
	"quizdeck/internal/util"

	"go.uber.org/zap"
)

// ParserVersion tags import batches for provenance. Bump when parse
// output changes shape.
const ParserVersion = "1.0.0"

// ImportRequest carries one document into the import pipeline.
type ImportRequest struct {
	Slug             string
	Markdown         string
	ProvidedName     string
	IndustrySpecific bool
	SourcePath       string
}

// ImportService runs the import pipeline: parse, resolve the topic
// name, and persist one quiz atomically. Runs for the same topic are
// serialized so concurrent re-imports cannot interleave their writes.
type ImportService struct {
	repo      domain.ImportRepository
	txManager domain.TransactionManager
	cache     domain.Cache
	cfg       config.ImportConfig
	repoURL   string

	topicLocks sync.Map
}

// NewImportService creates a new ImportService. cacheClient may be
// nil; invalidation is then skipped.
func NewImportService(
	repo domain.ImportRepository,
	txManager domain.TransactionManager,
	cacheClient domain.Cache,
	cfg config.ImportConfig,
	repoURL string,
) *ImportService {
	return &ImportService{
		repo:      repo,
		txManager: txManager,
		cache:     cacheClient,
		cfg:       cfg,
		repoURL:   repoURL,
	}
}

func (s *ImportService) lockTopic(slug string) func() {
	muIface, _ := s.topicLocks.LoadOrStore(slug, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ImportDocument imports one quiz markdown document for a topic. The
// whole write phase is one transaction; a zero-question parse aborts
// it like any write failure would, leaving prior data untouched.
func (s *ImportService) ImportDocument(ctx context.Context, req ImportRequest) (*domain.ImportResult, error) {
	if req.Slug == "" {
		return nil, domain.NewInvalidInputError("topic slug is required")
	}
	if req.Markdown == "" {
		return nil, domain.NewInvalidInputError("document is empty")
	}

	unlock := s.lockTopic(req.Slug)
	defer unlock()

	doc := parser.Parse(req.Markdown, "")
	if len(doc.Questions) == 0 {
		return nil, domain.NewParseError(req.Slug)
	}

	var result *domain.ImportResult
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		result, txErr = s.runImport(txCtx, req, doc)
		return txErr
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewTransactionError(err)
	}

	s.invalidateTopicCaches(ctx, req.Slug)

	logger.Get().Info("imported quiz document",
		zap.String("slug", req.Slug),
		zap.String("quiz_id", result.QuizID),
		zap.Int("question_count", result.QuestionCount))

	return result, nil
}

func (s *ImportService) runImport(ctx context.Context, req ImportRequest, doc parser.Document) (*domain.ImportResult, error) {
	source, err := s.repo.GetOrCreateSource(ctx, domain.Source{
		Name:        s.cfg.SourceName,
		RepoURL:     s.repoURL,
		LicenseSPDX: s.cfg.LicenseSPDX,
		Attribution: fmt.Sprintf("%s/%s", s.cfg.RepoOwner, s.cfg.RepoName),
		CommitSHA:   s.cfg.PinnedCommit,
	})
	if err != nil {
		return nil, err
	}

	notes := ""
	if req.SourcePath != "" {
		notes = fmt.Sprintf("Imported %s at %s", req.SourcePath, s.cfg.PinnedCommit)
	}
	batch, err := s.repo.CreateImportBatch(ctx, domain.ImportBatch{
		SourceID:      source.ID,
		FetchedAt:     time.Now(),
		ParserVersion: ParserVersion,
		RawHash:       util.ContentHash(req.Markdown),
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}

	stored := ""
	if existing, err := s.repo.GetTopicBySlug(ctx, req.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		stored = existing.Name
	}

	name, err := topicname.ResolveForImport(req.Slug, topicname.Candidates{
		Stored:    stored,
		Extracted: doc.Topic,
		Provided:  req.ProvidedName,
	})
	if err != nil {
		return nil, err
	}

	topic, err := s.repo.UpsertTopic(ctx, req.Slug, name)
	if err != nil {
		return nil, err
	}

	if err := s.mergeTopicCategory(ctx, req.Slug, name, req.IndustrySpecific); err != nil {
		return nil, err
	}

	quiz, err := s.repo.CreateQuiz(ctx, domain.Quiz{
		TopicID:       topic.ID,
		SourceID:      source.ID,
		ImportBatchID: batch.ID,
		Title:         fmt.Sprintf("%s Quiz (%s)", capitalizeSlug(req.Slug), s.cfg.PinnedCommit),
		Slug:          req.Slug + "-quiz",
	})
	if err != nil {
		return nil, err
	}

	for i, q := range doc.Questions {
		questionType := q.QuestionType
		if questionType == "" {
			questionType = "single"
		}
		correct := 0
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct++
			}
		}
		if correct > 1 {
			questionType = "multi"
		}

		questionID, err := s.repo.UpsertQuestion(ctx, domain.Question{
			QuizID:         quiz.ID,
			ExternalUID:    fmt.Sprintf("%s#Q%d@%s", req.Slug, q.NumberInSource, s.cfg.PinnedCommit),
			NumberInSource: q.NumberInSource,
			QuestionType:   questionType,
			PromptMD:       q.PromptMD,
			CodeMD:         q.CodeMD,
			CodeLanguage:   q.CodeLanguage,
			ExplanationMD:  q.ExplanationMD,
			ReferenceURL:   q.ReferenceURL,
			Position:       i + 1,
		})
		if err != nil {
			return nil, err
		}

		choices := make([]domain.Choice, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, domain.Choice{LabelMD: c.LabelMD, IsCorrect: c.IsCorrect})
		}
		if err := s.repo.ReplaceChoices(ctx, questionID, choices); err != nil {
			return nil, err
		}
	}

	return &domain.ImportResult{QuizID: quiz.ID, QuestionCount: len(doc.Questions)}, nil
}

// capitalizeSlug uppercases only the first character of a slug, so
// "adobe-acrobat" titles as "Adobe-acrobat", not "Adobe-Acrobat".
func capitalizeSlug(slug string) string {
	if slug == "" {
		return slug
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}

// mergeTopicCategory applies the asymmetric merge: a re-import may
// fill a missing display name or raise the industry flag, but never
// lowers a flag an administrator already set.
func (s *ImportService) mergeTopicCategory(ctx context.Context, slug, name string, industrySpecific bool) error {
	existing, err := s.repo.GetTopicCategory(ctx, slug)
	if err != nil {
		return err
	}

	if existing == nil {
		return s.repo.InsertTopicCategory(ctx, domain.TopicCategory{
			Slug:             slug,
			Name:             name,
			IndustrySpecific: industrySpecific,
		})
	}

	updated := *existing
	changed := false
	if existing.Name == "" || existing.Name == "null" {
		updated.Name = name
		changed = true
	}
	if industrySpecific && !existing.IndustrySpecific {
		updated.IndustrySpecific = true
		changed = true
	}
	if !changed {
		return nil
	}
	return s.repo.UpdateTopicCategory(ctx, updated)
}

func (s *ImportService) invalidateTopicCaches(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}

	keys := []string{
		cache.GenerateCacheKey("content", "topics", "all"),
		cache.GenerateCacheKey("content", "topics", "all", "industry", "true"),
		cache.GenerateCacheKey("content", "topics", "all", "industry", "false"),
		cache.GenerateCacheKey("content", "quiz_meta", slug),
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("failed to invalidate cache key",
				zap.String("key", key), zap.Error(err))
		}
	}
}
