package models

import (
	"math"
	"time"
)

// UserStats are the cumulative rewards for one owner.
type UserStats struct {
	TotalPoints         int    `json:"totalPoints"`
	TotalQuizzes        int    `json:"totalQuizzes"`
	TotalCorrectAnswers int    `json:"totalCorrectAnswers"`
	TotalQuestions      int    `json:"totalQuestions"`
	DailyStreak         int    `json:"dailyStreak"`
	LastQuizDate        string `json:"lastQuizDate,omitempty"` // YYYY-MM-DD, empty when unset
	BestScore           int    `json:"bestScore"`
}

// AccuracyPercentage is round(correct/questions*100), 0 with no questions.
func (s UserStats) AccuracyPercentage() int {
	if s.TotalQuestions <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalCorrectAnswers) / float64(s.TotalQuestions) * 100))
}

// StatsSummary is the stats payload served to clients.
type StatsSummary struct {
	UserStats
	AccuracyPercentage int `json:"accuracyPercentage"`
}

// Summary pairs the stats with their derived accuracy.
func (s UserStats) Summary() StatsSummary {
	return StatsSummary{UserStats: s, AccuracyPercentage: s.AccuracyPercentage()}
}

// PointsEntry is one awarded-points record. History is newest first.
type PointsEntry struct {
	ID             int64      `json:"id"`
	Points         int        `json:"points"`
	Topic          string     `json:"topic"`
	Difficulty     Difficulty `json:"difficulty"`
	CorrectAnswers int        `json:"correctAnswers"`
	TotalQuestions int        `json:"totalQuestions"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Leaderboard sort keys.
const (
	SortByTotalPoints  = "totalPoints"
	SortByTotalQuizzes = "totalQuizzes"
	SortByDailyStreak  = "dailyStreak"
)

type LeaderboardEntry struct {
	Rank               int    `json:"rank"`
	Owner              Owner  `json:"-"`
	Username           string `json:"username"`
	TotalPoints        int    `json:"totalPoints"`
	TotalQuizzes       int    `json:"totalQuizzes"`
	DailyStreak        int    `json:"dailyStreak"`
	AccuracyPercentage int    `json:"accuracyPercentage"`
}
