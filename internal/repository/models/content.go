// Package models holds the row-level structs scanned by sqlx. The
// domain layer never sees these types; adapters convert at the edge.
package models

import (
	"database/sql"
	"time"
)

type Source struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	RepoURL     sql.NullString `db:"repo_url"`
	SourceURL   sql.NullString `db:"source_url"`
	LicenseSPDX sql.NullString `db:"license_spdx"`
	Attribution sql.NullString `db:"attribution"`
	CommitSHA   sql.NullString `db:"commit_sha"`
	CreatedAt   time.Time      `db:"created_at"`
}

type ImportBatch struct {
	ID            string         `db:"id"`
	SourceID      string         `db:"source_id"`
	FetchedAt     time.Time      `db:"fetched_at"`
	ParserVersion string         `db:"parser_version"`
	RawHash       string         `db:"raw_hash"`
	Notes         sql.NullString `db:"notes"`
}

type Topic struct {
	ID          string         `db:"id"`
	Slug        sql.NullString `db:"slug"`
	Name        sql.NullString `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type QuizTopic struct {
	Slug             string         `db:"slug"`
	Name             sql.NullString `db:"name"`
	IndustrySpecific int            `db:"industry_specific"`
}

type Quiz struct {
	ID            string    `db:"id"`
	TopicID       string    `db:"topic_id"`
	SourceID      string    `db:"source_id"`
	ImportBatchID string    `db:"import_batch_id"`
	Title         string    `db:"title"`
	Slug          string    `db:"slug"`
	CreatedAt     time.Time `db:"created_at"`
}

type QuizMeta struct {
	Quiz
	QuestionCount int `db:"question_count"`
}

type Question struct {
	ID             string         `db:"id"`
	QuizID         string         `db:"quiz_id"`
	ExternalUID    string         `db:"external_uid"`
	NumberInSource int            `db:"number_in_source"`
	QuestionType   string         `db:"question_type"`
	PromptMD       string         `db:"prompt_md"`
	CodeMD         sql.NullString `db:"code_md"`
	CodeLanguage   sql.NullString `db:"code_language"`
	ExplanationMD  sql.NullString `db:"explanation_md"`
	Difficulty     sql.NullInt64  `db:"difficulty"`
	ReferenceURL   sql.NullString `db:"reference_url"`
	Position       int            `db:"position"`
	Active         int            `db:"active"`
}

type Choice struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	LabelMD    string `db:"label_md"`
	IsCorrect  int    `db:"is_correct"`
	Position   int    `db:"position"`
}

type TopicListing struct {
	Slug             string         `db:"slug"`
	Name             sql.NullString `db:"name"`
	Description      sql.NullString `db:"description"`
	IndustrySpecific int            `db:"industry_specific"`
}
