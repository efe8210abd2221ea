package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"quizdeck/internal/domain"
	"quizdeck/internal/logger"
	"quizdeck/internal/topicname"

	"go.uber.org/zap"
)

// IntegrityService scans quiz_topic rows for corruption left by
// earlier tooling (uppercase slugs, shouty machine-derived names) and
// repairs them on request.
type IntegrityService struct {
	repo      domain.IntegrityRepository
	txManager domain.TransactionManager
}

// NewIntegrityService creates a new IntegrityService.
func NewIntegrityService(repo domain.IntegrityRepository, txManager domain.TransactionManager) *IntegrityService {
	return &IntegrityService{repo: repo, txManager: txManager}
}

// Validate reports every corrupted quiz_topic row without touching
// the data.
func (s *IntegrityService) Validate(ctx context.Context) (*domain.IntegrityReport, error) {
	cats, err := s.repo.ListTopicCategories(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list topic categories", err)
	}

	report := &domain.IntegrityReport{
		Issues:     []domain.IntegrityIssue{},
		TopicCount: len(cats),
	}
	for _, cat := range cats {
		if cat.Slug != strings.ToLower(cat.Slug) {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Type:    domain.IssueUppercaseSlug,
				Slug:    cat.Slug,
				Name:    cat.Name,
				Message: fmt.Sprintf("slug %q is not lowercase", cat.Slug),
			})
		}
		if isShoutyName(cat.Name) {
			report.Issues = append(report.Issues, domain.IntegrityIssue{
				Type:    domain.IssueUppercaseName,
				Slug:    cat.Slug,
				Name:    cat.Name,
				Message: fmt.Sprintf("name %q looks machine-derived", cat.Name),
			})
		}
	}

	report.Valid = len(report.Issues) == 0
	return report, nil
}

// Fix repairs every issue Validate reports, all inside one
// transaction. Any failure rolls back the whole pass.
func (s *IntegrityService) Fix(ctx context.Context) (*domain.IntegrityFixResult, error) {
	result := &domain.IntegrityFixResult{Details: []domain.IntegrityFix{}}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		cats, err := s.repo.ListTopicCategories(txCtx)
		if err != nil {
			return err
		}

		for _, cat := range cats {
			fix, err := s.repairCategory(txCtx, cat)
			if err != nil {
				return err
			}
			if fix != nil {
				result.Details = append(result.Details, *fix)
				result.Fixed++
			}
		}
		return nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewTransactionError(err)
	}

	if result.Fixed > 0 {
		logger.Get().Info("repaired topic categories", zap.Int("fixed", result.Fixed))
	}
	return result, nil
}

func (s *IntegrityService) repairCategory(ctx context.Context, cat domain.TopicCategory) (*domain.IntegrityFix, error) {
	lowered := strings.ToLower(cat.Slug)
	slugDirty := cat.Slug != lowered
	nameDirty := isUppercasedSlugName(cat.Name, lowered)

	if !slugDirty && !nameDirty {
		return nil, nil
	}

	if slugDirty {
		existing, err := s.repo.GetTopicCategory(ctx, lowered)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if err := s.repo.DeleteTopicCategory(ctx, cat.Slug); err != nil {
				return nil, err
			}
			return &domain.IntegrityFix{
				Action:  domain.FixDeletedDuplicate,
				OldSlug: cat.Slug,
				OldName: cat.Name,
				Reason:  fmt.Sprintf("row for %q already exists", lowered),
			}, nil
		}
	}

	newName := cat.Name
	if nameDirty {
		newName = s.replacementName(ctx, lowered)
	}

	if err := s.repo.UpdateTopicCategoryIdentity(ctx, cat.Slug, lowered, newName); err != nil {
		return nil, err
	}
	return &domain.IntegrityFix{
		Action:  domain.FixUpdated,
		OldSlug: cat.Slug,
		OldName: cat.Name,
		NewSlug: lowered,
		NewName: newName,
	}, nil
}

// replacementName prefers the topic table's name when it is itself
// presentable, falling back to a title-cased slug.
func (s *IntegrityService) replacementName(ctx context.Context, slug string) string {
	name, err := s.repo.GetTopicName(ctx, slug)
	if err != nil {
		logger.Get().Warn("failed to look up topic name for repair",
			zap.String("slug", slug), zap.Error(err))
	}
	if name != "" && name != "null" && !isShoutyName(name) && topicname.IsValidTopicName(name, slug) {
		return name
	}
	return topicname.SlugToName(slug)
}

// isUppercasedSlugName reports whether a stored name is repairable
// corruption: fully uppercase and no more than a restyled copy of the
// slug itself. A curated all-caps name that does not normalize to the
// slug is flagged by Validate but never rewritten.
func isUppercasedSlugName(name, slug string) bool {
	return isShoutyName(name) && !topicname.IsValidTopicName(name, slug)
}

// isShoutyName reports whether a stored name is the fully-uppercased
// artifact of an early importer that shouted the slug back. Short
// names are exempt since acronyms like "CSS" are legitimate.
func isShoutyName(name string) bool {
	if len(name) <= 3 {
		return false
	}
	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
