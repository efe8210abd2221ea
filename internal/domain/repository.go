package domain

import (
	"context"
)

// ContentRepository defines the read-side persistence operations.
// Absence is reported as a nil result, not an error; retrieval
// callers treat "not found" as an expected case.
type ContentRepository interface {
	// ListTopics returns the topic catalogue, optionally filtered by
	// category. A nil filter returns every topic.
	ListTopics(ctx context.Context, industrySpecific *bool) ([]TopicListing, error)

	// GetQuizBySlug looks a quiz up by exact slug first, then by a
	// prefix anchored on the "<topic>-quiz" stem, since storage may
	// have appended a uniqueness suffix. The anchored prefix keeps a
	// topic from resolving to a longer prefix-sharing topic's quiz.
	GetQuizBySlug(ctx context.Context, slug string) (*Quiz, error)

	// GetQuizMeta returns a quiz with its active question count.
	GetQuizMeta(ctx context.Context, slug string) (*QuizMeta, error)

	// GetQuestionsWithChoices returns active questions ordered by
	// position, with ordered choices attached. Offset is clamped to
	// non-negative and limit to a sane maximum by the caller.
	GetQuestionsWithChoices(ctx context.Context, quizID string, offset, limit int) ([]Question, error)

	// GetRandomQuestionsWithChoices draws up to count active
	// questions uniformly at random, excluding the given ids and
	// backfilling the shortfall from the full pool without
	// duplicating picks.
	GetRandomQuestionsWithChoices(ctx context.Context, quizID string, count int, excludeIDs []string) ([]Question, error)
}

// ImportRepository defines the write-side operations used by one
// import run. All methods honor a transaction carried in the context.
type ImportRepository interface {
	// GetOrCreateSource inserts the source if no row with its name
	// exists and returns the persisted row either way.
	GetOrCreateSource(ctx context.Context, src Source) (*Source, error)

	// CreateImportBatch records one pipeline execution.
	CreateImportBatch(ctx context.Context, batch ImportBatch) (*ImportBatch, error)

	// GetTopicBySlug returns nil when the topic does not exist.
	GetTopicBySlug(ctx context.Context, slug string) (*Topic, error)

	// UpsertTopic inserts the topic if absent and returns the row.
	UpsertTopic(ctx context.Context, slug, name string) (*Topic, error)

	// GetTopicCategory returns nil when no quiz_topic row exists.
	GetTopicCategory(ctx context.Context, slug string) (*TopicCategory, error)

	InsertTopicCategory(ctx context.Context, cat TopicCategory) error

	UpdateTopicCategory(ctx context.Context, cat TopicCategory) error

	// CreateQuiz inserts a quiz row, appending a uniqueness suffix to
	// the slug on collision, and returns the persisted row.
	CreateQuiz(ctx context.Context, quiz Quiz) (*Quiz, error)

	// UpsertQuestion inserts or fully supersedes the question keyed
	// on its external UID and returns the surviving row id.
	UpsertQuestion(ctx context.Context, q Question) (string, error)

	// ReplaceChoices deletes the question's choices and reinserts the
	// given set in order. This is the only supported update path for
	// choice content.
	ReplaceChoices(ctx context.Context, questionID string, choices []Choice) error
}

// IntegrityRepository defines the operations of the maintenance pass
// over quiz_topic rows.
type IntegrityRepository interface {
	ListTopicCategories(ctx context.Context) ([]TopicCategory, error)

	GetTopicCategory(ctx context.Context, slug string) (*TopicCategory, error)

	// GetTopicName returns topic.name for a slug, or "" if the topic
	// table has no row to borrow a better name from.
	GetTopicName(ctx context.Context, slug string) (string, error)

	UpdateTopicCategoryIdentity(ctx context.Context, oldSlug, newSlug, newName string) error

	DeleteTopicCategory(ctx context.Context, slug string) error
}

// TransactionManager runs a function inside one storage transaction.
// The transactional executor travels in the context so repository
// methods pick it up transparently.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
