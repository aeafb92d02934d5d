// Package extract pulls assistant text out of upstream completions and
// recovers the JSON array embedded in it.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Shape identifies which upstream response layout produced the content.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeOpenAIChat
	ShapeArrayGenerated
	ShapeBareGenerated
	ShapePlainString
)

func (s Shape) String() string {
	switch s {
	case ShapeOpenAIChat:
		return "openai_chat"
	case ShapeArrayGenerated:
		return "array_generated"
	case ShapeBareGenerated:
		return "bare_generated"
	case ShapePlainString:
		return "plain_string"
	default:
		return "unknown"
	}
}

// matcher reports the content for one shape, or false when the shape does not apply.
type matcher struct {
	shape Shape
	match func(root gjson.Result) (string, bool)
}

// matchers run in priority order; the first hit wins.
var matchers = []matcher{
	{ShapeOpenAIChat, matchOpenAIChat},
	{ShapeArrayGenerated, matchArrayGenerated},
	{ShapeBareGenerated, matchBareGenerated},
	{ShapePlainString, matchPlainString},
}

func matchOpenAIChat(root gjson.Result) (string, bool) {
	if !root.IsObject() {
		return "", false
	}
	c := root.Get("choices.0.message.content")
	if c.Type != gjson.String {
		return "", false
	}
	return c.Str, true
}

func matchArrayGenerated(root gjson.Result) (string, bool) {
	if !root.IsArray() {
		return "", false
	}
	first := root.Get("0")
	if !first.Exists() {
		return "", false
	}
	if gt := first.Get("generated_text"); gt.Type == gjson.String && gt.Str != "" {
		return gt.Str, true
	}
	if first.Type == gjson.String {
		return first.Str, true
	}
	return "", false
}

func matchBareGenerated(root gjson.Result) (string, bool) {
	if !root.IsObject() {
		return "", false
	}
	gt := root.Get("generated_text")
	if gt.Type != gjson.String || gt.Str == "" {
		return "", false
	}
	return gt.Str, true
}

func matchPlainString(root gjson.Result) (string, bool) {
	if root.Type != gjson.String {
		return "", false
	}
	return root.Str, true
}

// Completion is the normalized assistant text.
type Completion struct {
	Shape   Shape
	Content string
}

// Content probes the known shapes and returns the trimmed assistant text.
// Unrecognized payloads yield ShapeUnknown with empty content.
func Content(raw []byte) Completion {
	if !gjson.ValidBytes(raw) {
		return Completion{Shape: ShapeUnknown}
	}
	root := gjson.ParseBytes(raw)
	for _, m := range matchers {
		if s, ok := m.match(root); ok {
			return Completion{Shape: m.shape, Content: strings.TrimSpace(s)}
		}
	}
	return Completion{Shape: ShapeUnknown}
}

// Parse failure reasons.
const (
	ReasonUnexpectedFormat = "unexpected_format"
	ReasonInvalidJSON      = "invalid_json"
	ReasonEmptyContent     = "empty_content"
)

// ParseError distinguishes "no array found" from "array did not parse".
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse error (%s)", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// arrayPattern is greedy: first '[' to last ']'.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// JSONArray locates the bracketed JSON in text and decodes it.
func JSONArray(text string) (any, error) {
	m := arrayPattern.FindString(text)
	if m == "" {
		return nil, &ParseError{Reason: ReasonUnexpectedFormat}
	}
	var v any
	if err := json.Unmarshal([]byte(m), &v); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidJSON, Err: err}
	}
	return v, nil
}

// Questions extracts the content and its embedded array in one step.
func Questions(raw []byte) (any, error) {
	return JSONArray(Content(raw).Content)
}
