package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
	"quizdeck/internal/util"

	"github.com/jmoiron/sqlx"
)

// ContentDatabaseAdapter implements domain.ContentRepository using
// sqlx over the quiz content store.
type ContentDatabaseAdapter struct {
	db *sqlx.DB
}

// NewContentDatabaseAdapter creates a new read-side adapter.
func NewContentDatabaseAdapter(db *sqlx.DB) domain.ContentRepository {
	return &ContentDatabaseAdapter{db: db}
}

const questionColumns = `id, quiz_id, external_uid, number_in_source, question_type,
		prompt_md, code_md, code_language, explanation_md, difficulty, reference_url,
		position, active`

// ListTopics implements domain.ContentRepository. Topics with a null
// slug are legacy corruption and are excluded; the category flag
// defaults to technical when no quiz_topic row exists. The display
// name falls back quiz_topic.name -> topic.name -> slug, skipping
// empty and literal "null" values left by earlier tooling.
func (a *ContentDatabaseAdapter) ListTopics(ctx context.Context, industrySpecific *bool) ([]domain.TopicListing, error) {
	query := `SELECT t.slug,
		CASE
			WHEN qt.name IS NOT NULL AND qt.name != '' AND qt.name != 'null' THEN qt.name
			WHEN t.name IS NOT NULL AND t.name != '' AND t.name != 'null' THEN t.name
			ELSE t.slug
		END AS name,
		t.description,
		COALESCE(qt.industry_specific, 0) AS industry_specific
	FROM topic t
	LEFT JOIN quiz_topic qt ON qt.slug = t.slug
	WHERE t.slug IS NOT NULL`

	args := []interface{}{}
	if industrySpecific != nil {
		query += ` AND COALESCE(qt.industry_specific, 0) = ?`
		flag := 0
		if *industrySpecific {
			flag = 1
		}
		args = append(args, flag)
	}
	query += ` ORDER BY name ASC`

	var rows []models.TopicListing
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	listings := make([]domain.TopicListing, 0, len(rows))
	for _, r := range rows {
		name := util.NullStringToString(r.Name)
		if name == "" || name == "null" {
			name = r.Slug
		}
		listings = append(listings, domain.TopicListing{
			Slug:             r.Slug,
			Name:             name,
			Description:      util.NullStringToString(r.Description),
			IndustrySpecific: r.IndustrySpecific == 1,
		})
	}
	return listings, nil
}

// GetQuizBySlug implements domain.ContentRepository. Storage may have
// appended a uniqueness suffix to the quiz slug on insert collision,
// so a missed exact match falls back to a prefix match. The prefix is
// anchored on the full "<topic>-quiz" stem; a bare topic-slug prefix
// would let prefix-sharing topics (java, javascript) shadow each
// other.
func (a *ContentDatabaseAdapter) GetQuizBySlug(ctx context.Context, slug string) (*domain.Quiz, error) {
	var quiz models.Quiz
	err := a.db.GetContext(ctx, &quiz,
		`SELECT id, topic_id, source_id, import_batch_id, title, slug, created_at
		 FROM quiz WHERE slug = ? ORDER BY created_at DESC, id DESC LIMIT 1`, slug)
	if err == sql.ErrNoRows {
		topicSlug := strings.TrimSuffix(slug, "-quiz")
		err = a.db.GetContext(ctx, &quiz,
			`SELECT id, topic_id, source_id, import_batch_id, title, slug, created_at
			 FROM quiz WHERE slug LIKE ? ORDER BY created_at DESC, id DESC LIMIT 1`, topicSlug+"-quiz%")
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by slug %s: %w", slug, err)
	}
	return toDomainQuiz(&quiz), nil
}

// GetQuizMeta implements domain.ContentRepository.
func (a *ContentDatabaseAdapter) GetQuizMeta(ctx context.Context, slug string) (*domain.QuizMeta, error) {
	quiz, err := a.GetQuizBySlug(ctx, slug)
	if err != nil || quiz == nil {
		return nil, err
	}

	var count int
	err = a.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM question WHERE quiz_id = ? AND active = 1`, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions for quiz %s: %w", quiz.ID, err)
	}

	return &domain.QuizMeta{Quiz: *quiz, QuestionCount: count}, nil
}

// GetQuestionsWithChoices implements domain.ContentRepository.
func (a *ContentDatabaseAdapter) GetQuestionsWithChoices(ctx context.Context, quizID string, offset, limit int) ([]domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + `
		FROM question
		WHERE quiz_id = ? AND active = 1
		ORDER BY position ASC
		LIMIT ? OFFSET ?`
	if err := a.db.SelectContext(ctx, &rows, query, quizID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}

	return a.attachChoices(ctx, rows)
}

// GetRandomQuestionsWithChoices implements domain.ContentRepository.
// The first draw honors the exclusion list; if it comes up short, a
// second draw ignores the exclusions but skips already-picked ids,
// so the caller receives up to count questions bounded only by the
// active pool.
func (a *ContentDatabaseAdapter) GetRandomQuestionsWithChoices(ctx context.Context, quizID string, count int, excludeIDs []string) ([]domain.Question, error) {
	picked, err := a.randomQuestions(ctx, quizID, count, excludeIDs)
	if err != nil {
		return nil, err
	}

	if len(picked) < count {
		pickedIDs := make([]string, 0, len(picked))
		for _, q := range picked {
			pickedIDs = append(pickedIDs, q.ID)
		}
		fillers, err := a.randomQuestions(ctx, quizID, count-len(picked), pickedIDs)
		if err != nil {
			return nil, err
		}
		picked = append(picked, fillers...)
	}

	return a.attachChoices(ctx, picked)
}

func (a *ContentDatabaseAdapter) randomQuestions(ctx context.Context, quizID string, limit int, excludeIDs []string) ([]models.Question, error) {
	query := `SELECT ` + questionColumns + `
		FROM question
		WHERE quiz_id = ? AND active = 1`
	args := []interface{}{quizID}

	if len(excludeIDs) > 0 {
		inClause, inArgs, err := sqlx.In(` AND id NOT IN (?)`, excludeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to build exclusion clause: %w", err)
		}
		query += inClause
		args = append(args, inArgs...)
	}
	query += ` ORDER BY RANDOM() LIMIT ?`
	args = append(args, limit)

	var rows []models.Question
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get random questions for quiz %s: %w", quizID, err)
	}
	return rows, nil
}

// attachChoices loads the ordered choices for a question batch in one
// query and groups them onto the converted domain questions.
func (a *ContentDatabaseAdapter) attachChoices(ctx context.Context, questions []models.Question) ([]domain.Question, error) {
	if len(questions) == 0 {
		return []domain.Question{}, nil
	}

	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	query, args, err := sqlx.In(
		`SELECT id, question_id, label_md, is_correct, position
		 FROM choice
		 WHERE question_id IN (?)
		 ORDER BY question_id ASC, position ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build choice query: %w", err)
	}

	var choiceRows []models.Choice
	if err := a.db.SelectContext(ctx, &choiceRows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}

	byQuestion := make(map[string][]domain.Choice, len(questions))
	for _, c := range choiceRows {
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], domain.Choice{
			ID:         c.ID,
			QuestionID: c.QuestionID,
			LabelMD:    c.LabelMD,
			IsCorrect:  c.IsCorrect == 1,
			Position:   c.Position,
		})
	}

	result := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		dq := toDomainQuestion(&q)
		dq.Choices = byQuestion[q.ID]
		result = append(result, *dq)
	}
	return result, nil
}

// Helper functions for model conversion

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:            m.ID,
		TopicID:       m.TopicID,
		SourceID:      m.SourceID,
		ImportBatchID: m.ImportBatchID,
		Title:         m.Title,
		Slug:          m.Slug,
		CreatedAt:     m.CreatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:             m.ID,
		QuizID:         m.QuizID,
		ExternalUID:    m.ExternalUID,
		NumberInSource: m.NumberInSource,
		QuestionType:   m.QuestionType,
		PromptMD:       m.PromptMD,
		CodeMD:         util.NullStringToString(m.CodeMD),
		CodeLanguage:   util.NullStringToString(m.CodeLanguage),
		ExplanationMD:  util.NullStringToString(m.ExplanationMD),
		ReferenceURL:   util.NullStringToString(m.ReferenceURL),
		Position:       m.Position,
		Active:         m.Active == 1,
	}
}
