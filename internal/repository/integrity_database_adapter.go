package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quizdeck/internal/domain"
	"quizdeck/internal/repository/models"
	"quizdeck/internal/util"

	"github.com/jmoiron/sqlx"
)

// IntegrityDatabaseAdapter implements domain.IntegrityRepository. Fix
// passes run under the context transaction like import writes do.
type IntegrityDatabaseAdapter struct {
	db *sqlx.DB
}

// NewIntegrityDatabaseAdapter creates a new maintenance adapter.
func NewIntegrityDatabaseAdapter(db *sqlx.DB) domain.IntegrityRepository {
	return &IntegrityDatabaseAdapter{db: db}
}

// ListTopicCategories implements domain.IntegrityRepository.
func (a *IntegrityDatabaseAdapter) ListTopicCategories(ctx context.Context) ([]domain.TopicCategory, error) {
	ex := GetExecutor(ctx, a.db)

	var rows []models.QuizTopic
	err := ex.SelectContext(ctx, &rows,
		`SELECT slug, name, industry_specific FROM quiz_topic ORDER BY slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic categories: %w", err)
	}

	cats := make([]domain.TopicCategory, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, domain.TopicCategory{
			Slug:             r.Slug,
			Name:             util.NullStringToString(r.Name),
			IndustrySpecific: r.IndustrySpecific == 1,
		})
	}
	return cats, nil
}

// GetTopicCategory implements domain.IntegrityRepository.
func (a *IntegrityDatabaseAdapter) GetTopicCategory(ctx context.Context, slug string) (*domain.TopicCategory, error) {
	return getTopicCategory(ctx, GetExecutor(ctx, a.db), slug)
}

// GetTopicName implements domain.IntegrityRepository.
func (a *IntegrityDatabaseAdapter) GetTopicName(ctx context.Context, slug string) (string, error) {
	ex := GetExecutor(ctx, a.db)

	var name sql.NullString
	err := ex.GetContext(ctx, &name, `SELECT name FROM topic WHERE slug = ?`, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get topic name for %q: %w", slug, err)
	}
	return util.NullStringToString(name), nil
}

// UpdateTopicCategoryIdentity implements domain.IntegrityRepository.
// Slug is the primary key of quiz_topic, so a slug repair rewrites the
// key itself.
func (a *IntegrityDatabaseAdapter) UpdateTopicCategoryIdentity(ctx context.Context, oldSlug, newSlug, newName string) error {
	ex := GetExecutor(ctx, a.db)

	_, err := ex.ExecContext(ctx,
		`UPDATE quiz_topic SET slug = ?, name = ? WHERE slug = ?`,
		newSlug, util.StringToNullString(newName), oldSlug)
	if err != nil {
		return fmt.Errorf("failed to update topic category identity %q -> %q: %w", oldSlug, newSlug, err)
	}
	return nil
}

// DeleteTopicCategory implements domain.IntegrityRepository.
func (a *IntegrityDatabaseAdapter) DeleteTopicCategory(ctx context.Context, slug string) error {
	ex := GetExecutor(ctx, a.db)

	_, err := ex.ExecContext(ctx, `DELETE FROM quiz_topic WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete topic category %q: %w", slug, err)
	}
	return nil
}
