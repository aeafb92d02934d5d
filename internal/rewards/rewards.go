// Package rewards converts finished quizzes into points and keeps the
// cumulative stats and daily streak.
package rewards

import (
	"time"

	"github.com/vytor/studysmart/internal/models"
)

// HistoryLimit caps the points history kept per owner.
const HistoryLimit = 50

// DateLayout is the calendar-day key used for daily streaks.
const DateLayout = "2006-01-02"

var basePoints = map[models.Difficulty]int{
	models.Facil:   10,
	models.Medio:   20,
	models.Dificil: 30,
	models.Experto: 50,
}

// BasePoints returns the full-marks award for a tier. Unknown tiers get 10.
func BasePoints(d models.Difficulty) int {
	if p, ok := basePoints[d]; ok {
		return p
	}
	return 10
}

// Points awards the base for a perfect run, floor(base*correct/total) at 50%
// or more, and nothing below that.
func Points(d models.Difficulty, correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	base := BasePoints(d)
	switch {
	case correct >= total:
		return base
	case 2*correct >= total:
		return base * correct / total
	default:
		return 0
	}
}

// AdvanceDailyStreak applies the calendar rule for today (local date of t).
// Repeat quizzes on the same day leave the streak unchanged.
func AdvanceDailyStreak(stats models.UserStats, t time.Time) models.UserStats {
	today := t.Format(DateLayout)
	if stats.LastQuizDate == today {
		return stats
	}
	yesterday := t.AddDate(0, 0, -1).Format(DateLayout)
	if stats.LastQuizDate == "" || stats.LastQuizDate == yesterday {
		stats.DailyStreak++
	} else {
		stats.DailyStreak = 1
	}
	stats.LastQuizDate = today
	return stats
}

// Result is a finished quiz as seen by the rewards rules.
type Result struct {
	Topic          string
	Difficulty     models.Difficulty
	Score          int
	CorrectAnswers int
	Answered       int
	TotalQuestions int
}

// Delta is what one finished quiz adds to an owner's stats.
type Delta struct {
	Points         int
	Topic          string
	Difficulty     models.Difficulty
	Score          int
	CorrectAnswers int
	Answered       int
	TotalQuestions int
}

// NewDelta scores a result. Points are computed over all questions in the
// set; accuracy only counts the questions actually answered.
func NewDelta(r Result) Delta {
	return Delta{
		Points:         Points(r.Difficulty, r.CorrectAnswers, r.TotalQuestions),
		Topic:          r.Topic,
		Difficulty:     r.Difficulty,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		Answered:       r.Answered,
		TotalQuestions: r.TotalQuestions,
	}
}

// Apply folds a delta into stats for a quiz finished at t.
func Apply(stats models.UserStats, d Delta, t time.Time) models.UserStats {
	stats.TotalPoints += d.Points
	stats.TotalQuizzes++
	stats.TotalCorrectAnswers += d.CorrectAnswers
	stats.TotalQuestions += d.Answered
	if d.Score > stats.BestScore {
		stats.BestScore = d.Score
	}
	return AdvanceDailyStreak(stats, t)
}

// Entry builds the history record for a delta.
func (d Delta) Entry(at time.Time) models.PointsEntry {
	return models.PointsEntry{
		Points:         d.Points,
		Topic:          d.Topic,
		Difficulty:     d.Difficulty,
		CorrectAnswers: d.CorrectAnswers,
		TotalQuestions: d.TotalQuestions,
		CreatedAt:      at,
	}
}
