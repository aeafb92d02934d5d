package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/studysmart/internal/errors"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show points, streak and recent history",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			s, err := a.stats.GetStats(ctx, a.owner)
			if err != nil {
				return describe(err)
			}
			history, err := a.stats.GetPointsHistory(ctx, a.owner, limit)
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Puntos totales:   %d\n", s.TotalPoints)
			fmt.Fprintf(out, "Quizzes:          %d\n", s.TotalQuizzes)
			fmt.Fprintf(out, "Precisión:        %d%%\n", s.AccuracyPercentage)
			fmt.Fprintf(out, "Racha diaria:     %d\n", s.DailyStreak)
			fmt.Fprintf(out, "Mejor puntuación: %d\n", s.BestScore)

			if len(history) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-16s  %-6s  %-8s  %-7s  %s\n", "Fecha", "Puntos", "Nivel", "Aciertos", "Tema")
			fmt.Fprintln(out, strings.Repeat("─", 64))
			for _, h := range history {
				fmt.Fprintf(out, "%-16s  %-6d  %-8s  %3d/%-4d  %s\n",
					h.CreatedAt.Local().Format("2006-01-02 15:04"),
					h.Points, h.Difficulty, h.CorrectAnswers, h.TotalQuestions, h.Topic)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "History entries to show")
	return cmd
}

// describe turns an AppError into a one-line message for the terminal.
func describe(err error) error {
	appErr, ok := errors.As(err)
	if !ok {
		return err
	}
	if fields, ok := appErr.Details.([]errors.FieldError); ok && len(fields) > 0 {
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = f.Field + " " + f.Message
		}
		return fmt.Errorf("%s: %s", appErr.Message, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%s (%s)", appErr.Message, appErr.Code)
}
