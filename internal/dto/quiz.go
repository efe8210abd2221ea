package dto

import (
	"time"

	"quizdeck/internal/domain"
)

// TopicResponse represents one topic catalogue entry.
type TopicResponse struct {
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	IndustrySpecific bool   `json:"industry_specific"`
}

// QuizMetaResponse represents a quiz with its question count.
type QuizMetaResponse struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChoiceResponse represents one answer option.
type ChoiceResponse struct {
	ID        string `json:"id"`
	LabelMD   string `json:"label_md"`
	IsCorrect bool   `json:"is_correct"`
	Position  int    `json:"position"`
}

// QuestionResponse represents one question with its choices.
type QuestionResponse struct {
	ID             string           `json:"id"`
	NumberInSource int              `json:"number_in_source"`
	QuestionType   string           `json:"question_type"`
	PromptMD       string           `json:"prompt_md"`
	CodeMD         string           `json:"code_md,omitempty"`
	CodeLanguage   string           `json:"code_language,omitempty"`
	ExplanationMD  string           `json:"explanation_md,omitempty"`
	ReferenceURL   string           `json:"reference_url,omitempty"`
	Position       int              `json:"position"`
	Choices        []ChoiceResponse `json:"choices"`
}

// ImportRequest is the request body for a single-document import.
type ImportRequest struct {
	Slug             string `json:"slug"`
	Markdown         string `json:"markdown"`
	ProvidedName     string `json:"provided_name,omitempty"`
	IndustrySpecific bool   `json:"industry_specific,omitempty"`
	SourcePath       string `json:"source_path,omitempty"`
}

// ImportResponse reports a successful import.
type ImportResponse struct {
	QuizID        string `json:"quiz_id"`
	QuestionCount int    `json:"question_count"`
}

// ErrorResponse is the minimal error body used by handlers that
// answer before the error middleware is reached.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewTopicResponses converts domain listings.
func NewTopicResponses(listings []domain.TopicListing) []TopicResponse {
	out := make([]TopicResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, TopicResponse{
			Slug:             l.Slug,
			Name:             l.Name,
			Description:      l.Description,
			IndustrySpecific: l.IndustrySpecific,
		})
	}
	return out
}

// NewQuizMetaResponse converts a domain quiz meta row.
func NewQuizMetaResponse(meta *domain.QuizMeta) QuizMetaResponse {
	return QuizMetaResponse{
		ID:            meta.ID,
		Slug:          meta.Slug,
		Title:         meta.Title,
		QuestionCount: meta.QuestionCount,
		CreatedAt:     meta.CreatedAt,
	}
}

// NewQuestionResponses converts domain questions with their choices.
func NewQuestionResponses(questions []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		choices := make([]ChoiceResponse, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, ChoiceResponse{
				ID:        c.ID,
				LabelMD:   c.LabelMD,
				IsCorrect: c.IsCorrect,
				Position:  c.Position,
			})
		}
		out = append(out, QuestionResponse{
			ID:             q.ID,
			NumberInSource: q.NumberInSource,
			QuestionType:   q.QuestionType,
			PromptMD:       q.PromptMD,
			CodeMD:         q.CodeMD,
			CodeLanguage:   q.CodeLanguage,
			ExplanationMD:  q.ExplanationMD,
			ReferenceURL:   q.ReferenceURL,
			Position:       q.Position,
			Choices:        choices,
		})
	}
	return out
}
