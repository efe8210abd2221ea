package domain

import (
	"time"
)

// Source is an attributed content provider. One row exists per
// provider name; rows are created on first import and never mutated.
type Source struct {
	ID          string
	Name        string
	RepoURL     string
	SourceURL   string
	LicenseSPDX string
	Attribution string
	CommitSHA   string
	CreatedAt   time.Time
}

// ImportBatch records one execution of the import pipeline against
// one document. Immutable once written.
type ImportBatch struct {
	ID            string
	SourceID      string
	FetchedAt     time.Time
	ParserVersion string
	RawHash       string
	Notes         string
}

// Topic is a subject area keyed by its lowercase slug.
type Topic struct {
	ID          string
	Slug        string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TopicCategory is the curated classification of a slug (the
// quiz_topic row). It is administrator intent: re-imports may fill a
// missing name or raise the industry flag, never lower it.
type TopicCategory struct {
	Slug             string
	Name             string
	IndustrySpecific bool
}

// Quiz is one generated question set for a topic, produced by one
// import batch. Its slug derives from the topic slug and may carry a
// uniqueness suffix, so canonical lookup is prefix-based.
type Quiz struct {
	ID            string
	TopicID       string
	SourceID      string
	ImportBatchID string
	Title         string
	Slug          string
	CreatedAt     time.Time
}

// QuizMeta is a quiz row together with its active question count.
type QuizMeta struct {
	Quiz
	QuestionCount int
}

// Question is one parsed question. ExternalUID is the idempotency
// anchor: unique per (topic slug, source question number, pinned
// commit), it makes re-imports replace rather than duplicate.
type Question struct {
	ID             string
	QuizID         string
	ExternalUID    string
	NumberInSource int
	QuestionType   string
	PromptMD       string
	CodeMD         string
	CodeLanguage   string
	ExplanationMD  string
	ReferenceURL   string
	Position       int
	Active         bool
	Choices        []Choice
}

// Choice is one answer option for a question.
type Choice struct {
	ID         string
	QuestionID string
	LabelMD    string
	IsCorrect  bool
	Position   int
}

// TopicListing is one row of the topic catalogue: topic joined with
// its curated category, defaulting to technical when no quiz_topic
// row exists.
type TopicListing struct {
	Slug             string
	Name             string
	Description      string
	IndustrySpecific bool
}

// ImportResult summarizes a successful import run.
type ImportResult struct {
	QuizID        string
	QuestionCount int
}

// IntegrityIssue is a non-fatal, descriptive corruption record
// returned by the validator. Issues are reported, never silently
// repaired during normal read or import flow.
type IntegrityIssue struct {
	Type    string `json:"type"`
	Slug    string `json:"slug"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Issue type tags produced by the integrity validator.
const (
	IssueUppercaseSlug = "uppercase_slug"
	IssueUppercaseName = "uppercase_name"
)

// IntegrityReport is the result of a validation pass.
type IntegrityReport struct {
	Valid      bool             `json:"valid"`
	Issues     []IntegrityIssue `json:"issues"`
	TopicCount int              `json:"topic_count"`
}

// IntegrityFix describes one repair applied by a fix pass.
type IntegrityFix struct {
	Action  string `json:"action"`
	OldSlug string `json:"old_slug"`
	OldName string `json:"old_name"`
	NewSlug string `json:"new_slug,omitempty"`
	NewName string `json:"new_name,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Repair action tags.
const (
	FixUpdated          = "updated"
	FixDeletedDuplicate = "deleted_duplicate"
)

// IntegrityFixResult is the outcome of a repair pass.
type IntegrityFixResult struct {
	Fixed   int            `json:"fixed"`
	Details []IntegrityFix `json:"details"`
}
