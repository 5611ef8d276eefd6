// Package nlquery turns a staff member's question about marks into a typed
// selection. The model only ever picks a selection and its parameters; it
// never writes SQL.
package nlquery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/markassist/markassist/internal/llm"
	"github.com/markassist/markassist/internal/marks"
)

// Schema is the answer shape the model must produce.
var Schema = &llm.Schema{
	Name:        "mark-selection",
	Description: "One selection over the student marks table",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        selectionNames(),
				"description": "Which selection to run",
			},
			"params": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Parameters in order, as strings. Empty for ALL.",
			},
		},
		"required":             []any{"operation", "params"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You translate questions about student marks into one selection over a table
with columns StudentID, Assignment1, Assignment2, Exam, Total and Grade.

Available selections:
- ALL: every record. No params.
- BY_GRADE: records with a grade. One param, one of HD, D, C, P, SA, SE, AF, F.
- BY_TOTAL_RANGE: records with low <= Total <= high. Two integer params: low, high.
- BY_TOLERANCE: records whose Total is exactly t marks below a grade boundary (85, 75, 65, 50). One integer param t.
- BY_ASSIGNMENT1: records with a given Assignment1 mark. One integer param.

Grades: HD High Distinction (85+), D Distinction (75-84), C Credit (65-74), P Pass (50-64),
SA Supplementary Assessment, SE Supplementary Exam, AF Absent Fail, F Fail.

Pick the single selection that best answers the question. Answer with JSON only.`

// Translation is the model's choice before it is checked.
type Translation struct {
	Operation string   `json:"operation"`
	Params    []string `json:"params"`
}

// Translator asks a provider to translate questions.
type Translator struct {
	provider  llm.Provider
	maxTokens int
	logger    log.Logger
}

// New creates a Translator. A nil logger discards output.
func New(provider llm.Provider, logger log.Logger) *Translator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Translator{
		provider:  provider,
		maxTokens: 256,
		logger:    log.With(logger, "component", "nlquery"),
	}
}

// Translate returns the selection for question. A model answer that names
// a non-selection operation or carries bad parameters is an
// *marks.ErrValidation.
func (t *Translator) Translate(ctx context.Context, question string) (marks.Selection, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("empty question")
	}

	ctx = llm.WithPurpose(ctx, "nl-query")
	resp, err := t.provider.Generate(ctx, llm.Request{
		System:    systemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: question}},
		Schema:    Schema,
		MaxTokens: t.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("translate question: %w", err)
	}

	var tr Translation
	if err := llm.Decode(resp, Schema, &tr); err != nil {
		return nil, fmt.Errorf("translate question: %w", err)
	}

	sel, err := tr.Selection()
	if err != nil {
		return nil, err
	}
	level.Debug(t.logger).Log("msg", "translated", "question", question, "op", sel.Operation(), "params", strings.Join(tr.Params, ","))
	return sel, nil
}

// Selection checks the translation and returns the typed selection.
func (tr Translation) Selection() (marks.Selection, error) {
	op, err := marks.ParseOperation(tr.Operation)
	if err != nil || !op.IsSelection() {
		return nil, &marks.ErrValidation{Op: op, Reason: fmt.Sprintf("model chose %q, which is not a selection", tr.Operation)}
	}
	return marks.ParseSelection(op, tr.Params...)
}

func selectionNames() []any {
	var out []any
	for _, op := range marks.Operations() {
		if op.IsSelection() {
			out = append(out, op.String())
		}
	}
	return out
}
