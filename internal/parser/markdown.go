// Package parser converts the community quiz markdown dialect into
// structured question records. The dialect is loosely authored:
// question headings vary between 3 and 6 hashes, the question number
// may or may not carry a trailing period, and bodies mix choice
// lists, fenced code, images and reference links with no schema.
// The parser recognizes that fixed marker set and nothing more; it is
// not a CommonMark implementation.
package parser

import (
	"regexp"
	"strings"
)

var (
	lineEndingRe = regexp.MustCompile(`\r\n?`)
	topicRe      = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	questionRe   = regexp.MustCompile(`(?m)^#{3,6}\s+Q(\d+)\.?\s+(.+)$`)
	codeBlockRe  = regexp.MustCompile("(?s)```([a-zA-Z0-9_-]*)\n(.*?)\n```")
	choiceLineRe = regexp.MustCompile(`(?m)^- \[( |x)\]\s+(.*)$`)
	referenceRe  = regexp.MustCompile(`(?mi)^\[reference\]\(([^)]+)\)`)
	imageLineRe  = regexp.MustCompile(`^!\[[^\]]*\]\([^)]+\)\s*$`)
)

// Choice is one answer option in document order.
type Choice struct {
	LabelMD   string
	IsCorrect bool
}

// Question is one parsed question block.
type Question struct {
	// NumberInSource is the number declared in the heading (Qn); it
	// may be non-contiguous across the document.
	NumberInSource int
	// Position is the 1-based document-order position.
	Position      int
	QuestionType  string
	PromptMD      string
	CodeMD        string
	CodeLanguage  string
	ExplanationMD string
	ReferenceURL  string
	Choices       []Choice
}

// Document is the parse result for one quiz markdown file.
type Document struct {
	Topic     string
	Questions []Question
}

type block struct {
	number int
	title  string
	body   string
}

// Parse converts raw quiz markdown into a Document. overrideTopic is
// used only when the document carries no level-2 heading. A document
// with no recognizable question blocks yields an empty Questions
// slice; deciding whether that is fatal is the importer's call.
func Parse(markdown, overrideTopic string) Document {
	text := lineEndingRe.ReplaceAllString(markdown, "\n")

	topic := overrideTopic
	if m := topicRe.FindStringSubmatch(text); m != nil {
		topic = strings.TrimSpace(m[1])
	}

	blocks := splitQuestionBlocks(text)
	questions := make([]Question, 0, len(blocks))
	for i, b := range blocks {
		q := parseBlock(b)
		q.Position = i + 1
		questions = append(questions, q)
	}

	return Document{Topic: topic, Questions: questions}
}

// splitQuestionBlocks locates every question heading and slices the
// text between consecutive headings into block bodies.
func splitQuestionBlocks(text string) []block {
	matches := questionRe.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]block, 0, len(matches))
	for i, m := range matches {
		number := atoiSafe(text[m[2]:m[3]])
		title := strings.TrimSpace(text[m[4]:m[5]])
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, block{
			number: number,
			title:  title,
			body:   strings.TrimSpace(text[start:end]),
		})
	}
	return blocks
}

func parseBlock(b block) Question {
	q := Question{
		NumberInSource: b.number,
		QuestionType:   "single",
		PromptMD:       b.title,
	}

	// Only the first fenced code block is kept; it is re-fenced with
	// its language tag so the stored form is always well delimited.
	if m := codeBlockRe.FindStringSubmatch(b.body); m != nil {
		q.CodeLanguage = strings.TrimSpace(m[1])
		q.CodeMD = "```" + q.CodeLanguage + "\n" + m[2] + "\n```"
	}

	for _, cm := range choiceLineRe.FindAllStringSubmatch(b.body, -1) {
		q.Choices = append(q.Choices, Choice{
			IsCorrect: cm[1] == "x",
			LabelMD:   strings.TrimSpace(cm[2]),
		})
	}

	if loc := referenceRe.FindStringSubmatchIndex(b.body); loc != nil {
		q.ReferenceURL = strings.TrimSpace(b.body[loc[2]:loc[3]])
		q.ExplanationMD = strings.TrimSpace(b.body[loc[1]:])
	}

	// Bare image lines ahead of the answer list illustrate the
	// question; fold them into the prompt. Leading prose is not
	// prompt material and is left out.
	var images []string
	for _, raw := range strings.Split(b.body, "\n") {
		ln := strings.TrimSpace(raw)
		if ln == "" {
			continue
		}
		if strings.HasPrefix(ln, "- [") || strings.HasPrefix(ln, "```") || referenceRe.MatchString(ln) {
			break
		}
		if imageLineRe.MatchString(ln) {
			images = append(images, ln)
		}
	}
	if len(images) > 0 {
		q.PromptMD = b.title + "\n\n" + strings.Join(images, "\n")
	}

	return q
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
