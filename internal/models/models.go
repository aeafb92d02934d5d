package models

import (
	"fmt"
	"strings"
)

// Difficulty is the tier that drives both prompt wording and point value.
type Difficulty string

const (
	Facil   Difficulty = "facil"
	Medio   Difficulty = "medio"
	Dificil Difficulty = "dificil"
	Experto Difficulty = "experto"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{Facil, Medio, Dificil, Experto}

// ParseDifficulty accepts only the four known tiers (case-insensitive).
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case Facil, Medio, Dificil, Experto:
		return true
	}
	return false
}

func (d Difficulty) String() string { return string(d) }

// Mode selects between quiz and guide generation.
type Mode string

const (
	ModeQuiz  Mode = "quiz"
	ModeGuide Mode = "guide"
)

// Question count bounds for quiz generation.
const (
	MinQuestionCount = 3
	MaxQuestionCount = 20
)

// GenerationRequest describes one quiz or guide to generate. Exactly one of
// Topic or SourceText drives the prompt; SourceText wins when both are set.
type GenerationRequest struct {
	Mode          Mode
	Topic         string
	SourceText    string
	SourceName    string
	Difficulty    Difficulty
	QuestionCount int
}

// FromText reports whether the request is built from uploaded text.
func (r GenerationRequest) FromText() bool {
	return strings.TrimSpace(r.SourceText) != ""
}

// Question is a structurally validated multiple-choice question.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// Answer is one entry of a session's answer log.
type Answer struct {
	QuestionIndex int  `json:"questionIndex"`
	Chosen        int  `json:"chosen"`
	IsCorrect     bool `json:"isCorrect"`
}
