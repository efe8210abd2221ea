package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
	"quizdeck/internal/util"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ImportDatabaseAdapter implements domain.ImportRepository. Every
// method resolves its executor from the context, so all writes of one
// import run share the transaction opened by the import service.
type ImportDatabaseAdapter struct {
	db *sqlx.DB
}

// NewImportDatabaseAdapter creates a new write-side adapter.
func NewImportDatabaseAdapter(db *sqlx.DB) domain.ImportRepository {
	return &ImportDatabaseAdapter{db: db}
}

// GetOrCreateSource implements domain.ImportRepository. Sources are
// keyed by name and never mutated after first creation.
func (a *ImportDatabaseAdapter) GetOrCreateSource(ctx context.Context, src domain.Source) (*domain.Source, error) {
	ex := GetExecutor(ctx, a.db)

	_, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO source (id, name, repo_url, source_url, license_spdx, attribution, commit_sha, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		util.NewULID(), src.Name,
		util.StringToNullString(src.RepoURL),
		util.StringToNullString(src.SourceURL),
		util.StringToNullString(src.LicenseSPDX),
		util.StringToNullString(src.Attribution),
		util.StringToNullString(src.CommitSHA),
		time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert source: %w", err)
	}

	var row models.Source
	err = ex.GetContext(ctx, &row,
		`SELECT id, name, repo_url, source_url, license_spdx, attribution, commit_sha, created_at
		 FROM source WHERE name = ?`, src.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get source %q: %w", src.Name, err)
	}

	return &domain.Source{
		ID:          row.ID,
		Name:        row.Name,
		RepoURL:     util.NullStringToString(row.RepoURL),
		SourceURL:   util.NullStringToString(row.SourceURL),
		LicenseSPDX: util.NullStringToString(row.LicenseSPDX),
		Attribution: util.NullStringToString(row.Attribution),
		CommitSHA:   util.NullStringToString(row.CommitSHA),
		CreatedAt:   row.CreatedAt,
	}, nil
}

// CreateImportBatch implements domain.ImportRepository.
func (a *ImportDatabaseAdapter) CreateImportBatch(ctx context.Context, batch domain.ImportBatch) (*domain.ImportBatch, error) {
	ex := GetExecutor(ctx, a.db)

	batch.ID = util.NewULID()
	if batch.FetchedAt.IsZero() {
		batch.FetchedAt = time.Now()
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO import_batch (id, source_id, fetched_at, parser_version, raw_hash, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.SourceID, batch.FetchedAt, batch.ParserVersion, batch.RawHash,
		util.StringToNullString(batch.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create import batch: %w", err)
	}

	return &batch, nil
}

// GetTopicBySlug implements domain.ImportRepository.
func (a *ImportDatabaseAdapter) GetTopicBySlug(ctx context.Context, slug string) (*domain.Topic, error) {
	ex := GetExecutor(ctx, a.db)

	var row models.Topic
	err := ex.GetContext(ctx, &row,
		`SELECT id, slug, name, description, created_at, updated_at FROM topic WHERE slug = ?`, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic %q: %w", slug, err)
	}
	return toDomainTopic(&row), nil
}

// UpsertTopic implements domain.ImportRepository. An existing topic
// keeps its row; the slug is the stable identity, so re-imports never
// rewrite it.
func (a *ImportDatabaseAdapter) UpsertTopic(ctx context.Context, slug, name string) (*domain.Topic, error) {
	ex := GetExecutor(ctx, a.db)

	now := time.Now()
	_, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO topic (id, slug, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		util.NewULID(), slug, name, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert topic %q: %w", slug, err)
	}

	var row models.Topic
	err = ex.GetContext(ctx, &row,
		`SELECT id, slug, name, description, created_at, updated_at FROM topic WHERE slug = ?`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic %q after upsert: %w", slug, err)
	}
	return toDomainTopic(&row), nil
}

// GetTopicCategory implements domain.ImportRepository.
func (a *ImportDatabaseAdapter) GetTopicCategory(ctx context.Context, slug string) (*domain.TopicCategory, error) {
	return getTopicCategory(ctx, GetExecutor(ctx, a.db), slug)
}

// InsertTopicCategory implements domain.ImportRepository.
func (a *ImportDatabaseAdapter) InsertTopicCategory(ctx context.Context, cat domain.TopicCategory) error {
	ex := GetExecutor(ctx, a.db)

	_, err := ex.ExecContext(ctx,
		`INSERT INTO quiz_topic (slug, name, industry_specific) VALUES (?, ?, ?)`,
		cat.Slug, util.StringToNullString(cat.Name), boolToInt(cat.IndustrySpecific))
	if err != nil {
		return fmt.Errorf("failed to insert topic category %q: %w", cat.Slug, err)
	}
	return nil
}

// UpdateTopicCategory implements domain.ImportRepository. The merge
// decision (what may be overwritten) belongs to the import service;
// this just writes the resolved row.
func (a *ImportDatabaseAdapter) UpdateTopicCategory(ctx context.Context, cat domain.TopicCategory) error {
	ex := GetExecutor(ctx, a.db)

	_, err := ex.ExecContext(ctx,
		`UPDATE quiz_topic SET name = ?, industry_specific = ? WHERE slug = ?`,
		util.StringToNullString(cat.Name), boolToInt(cat.IndustrySpecific), cat.Slug)
	if err != nil {
		return fmt.Errorf("failed to update topic category %q: %w", cat.Slug, err)
	}
	return nil
}

// CreateQuiz implements domain.ImportRepository. Quiz slugs are
// unique; a collision with an earlier import's quiz gets a ULID
// suffix, which is why canonical lookup is prefix-based.
func (a *ImportDatabaseAdapter) CreateQuiz(ctx context.Context, quiz domain.Quiz) (*domain.Quiz, error) {
	ex := GetExecutor(ctx, a.db)

	quiz.ID = util.NewULID()
	quiz.CreatedAt = time.Now()

	slug := quiz.Slug
	for attempt := 0; ; attempt++ {
		_, err := ex.ExecContext(ctx,
			`INSERT INTO quiz (id, topic_id, source_id, import_batch_id, title, slug, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			quiz.ID, quiz.TopicID, quiz.SourceID, quiz.ImportBatchID, quiz.Title, slug, quiz.CreatedAt)
		if err == nil {
			quiz.Slug = slug
			return &quiz, nil
		}
		if !isUniqueViolation(err) || attempt >= 3 {
			return nil, fmt.Errorf("failed to create quiz for slug %q: %w", quiz.Slug, err)
		}
		slug = fmt.Sprintf("%s-%s", quiz.Slug, util.NewULID()[:8])
	}
}

// UpsertQuestion implements domain.ImportRepository. A prior row with
// the same external UID is fully superseded in place; its id survives
// so dependent choice rows can be replaced against it.
func (a *ImportDatabaseAdapter) UpsertQuestion(ctx context.Context, q domain.Question) (string, error) {
	ex := GetExecutor(ctx, a.db)

	_, err := ex.ExecContext(ctx,
		`INSERT INTO question (id, quiz_id, external_uid, number_in_source, question_type,
			prompt_md, code_md, code_language, explanation_md, difficulty, reference_url, position, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, 1)
		 ON CONFLICT(external_uid) DO UPDATE SET
			quiz_id = excluded.quiz_id,
			number_in_source = excluded.number_in_source,
			question_type = excluded.question_type,
			prompt_md = excluded.prompt_md,
			code_md = excluded.code_md,
			code_language = excluded.code_language,
			explanation_md = excluded.explanation_md,
			reference_url = excluded.reference_url,
			position = excluded.position,
			active = 1`,
		util.NewULID(), q.QuizID, q.ExternalUID, q.NumberInSource, q.QuestionType,
		q.PromptMD,
		util.StringToNullString(q.CodeMD),
		util.StringToNullString(q.CodeLanguage),
		util.StringToNullString(q.ExplanationMD),
		util.StringToNullString(q.ReferenceURL),
		q.Position)
	if err != nil {
		return "", fmt.Errorf("failed to upsert question %q: %w", q.ExternalUID, err)
	}

	var id string
	err = ex.GetContext(ctx, &id, `SELECT id FROM question WHERE external_uid = ?`, q.ExternalUID)
	if err != nil {
		return "", fmt.Errorf("failed to get question id for %q: %w", q.ExternalUID, err)
	}
	return id, nil
}

// ReplaceChoices implements domain.ImportRepository.
func (a *ImportDatabaseAdapter) ReplaceChoices(ctx context.Context, questionID string, choices []domain.Choice) error {
	ex := GetExecutor(ctx, a.db)

	if _, err := ex.ExecContext(ctx, `DELETE FROM choice WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("failed to delete choices for question %s: %w", questionID, err)
	}

	for i, choice := range choices {
		_, err := ex.ExecContext(ctx,
			`INSERT INTO choice (id, question_id, label_md, is_correct, position) VALUES (?, ?, ?, ?, ?)`,
			util.NewULID(), questionID, choice.LabelMD, boolToInt(choice.IsCorrect), i+1)
		if err != nil {
			return fmt.Errorf("failed to insert choice for question %s: %w", questionID, err)
		}
	}
	return nil
}

// getTopicCategory is shared with the integrity adapter.
func getTopicCategory(ctx context.Context, ex DBTX, slug string) (*domain.TopicCategory, error) {
	var row models.QuizTopic
	err := ex.GetContext(ctx, &row,
		`SELECT slug, name, industry_specific FROM quiz_topic WHERE slug = ?`, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic category %q: %w", slug, err)
	}
	return &domain.TopicCategory{
		Slug:             row.Slug,
		Name:             util.NullStringToString(row.Name),
		IndustrySpecific: row.IndustrySpecific == 1,
	}, nil
}

func toDomainTopic(m *models.Topic) *domain.Topic {
	return &domain.Topic{
		ID:          m.ID,
		Slug:        util.NullStringToString(m.Slug),
		Name:        util.NullStringToString(m.Name),
		Description: util.NullStringToString(m.Description),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
