// Package questions filters untrusted model output down to structurally
// valid multiple-choice questions.
package questions

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/vytor/studysmart/internal/models"
)

const schemaURL = "schema://question.json"

// questionSchema checks one candidate element. Option items are not typed:
// non-string options are kept as their JSON text.
const questionSchema = `{
	"type": "object",
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"options": {"type": "array", "minItems": 4, "maxItems": 4},
		"correct": {"type": "integer", "minimum": 0, "maximum": 3}
	},
	"required": ["question", "options", "correct"]
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(questionSchema), &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Failure reasons.
const (
	ReasonEmptyOrMalformed = "empty_or_malformed"
	ReasonNoValidQuestions = "no_valid_questions"
)

// Error reports why no question set could be produced.
type Error struct {
	Reason   string
	Rejected int
}

func (e *Error) Error() string {
	if e.Rejected > 0 {
		return fmt.Sprintf("question validation failed (%s, %d rejected)", e.Reason, e.Rejected)
	}
	return fmt.Sprintf("question validation failed (%s)", e.Reason)
}

// Validate keeps the structurally valid elements of parsed, in order, and
// returns at most count of them. count <= 0 means no limit. It never pads.
func Validate(parsed any, count int) ([]models.Question, error) {
	items, ok := parsed.([]any)
	if !ok || len(items) == 0 {
		return nil, &Error{Reason: ReasonEmptyOrMalformed}
	}

	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}

	var out []models.Question
	rejected := 0
	for _, item := range items {
		if err := sch.Validate(item); err != nil {
			rejected++
			continue
		}
		q, ok := toQuestion(item.(map[string]any))
		if !ok {
			rejected++
			continue
		}
		out = append(out, q)
	}

	if len(out) == 0 {
		return nil, &Error{Reason: ReasonNoValidQuestions, Rejected: rejected}
	}
	if count > 0 && len(out) > count {
		out = out[:count]
	}
	return out, nil
}

func toQuestion(m map[string]any) (models.Question, bool) {
	text, _ := m["question"].(string)
	rawOpts, _ := m["options"].([]any)
	correct, ok := toInt(m["correct"])
	if !ok {
		return models.Question{}, false
	}

	opts := make([]string, len(rawOpts))
	for i, o := range rawOpts {
		if s, isStr := o.(string); isStr {
			opts[i] = s
			continue
		}
		b, err := json.Marshal(o)
		if err != nil {
			return models.Question{}, false
		}
		opts[i] = string(b)
	}
	return models.Question{Question: text, Options: opts, Correct: correct}, true
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	case int:
		return n, true
	}
	return 0, false
}
