package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/quiz"
	"github.com/vytor/studysmart/internal/services"
)

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a quiz and play it",
		Long: "Generate a multiple-choice quiz from a topic or a text file and play it here.\n" +
			"Answer with the option number; q abandons the quiz without points.",
		RunE: runQuiz,
	}
	generationFlags(cmd)
	cmd.Flags().IntP("count", "n", 0, "Number of questions, 3 to 20 (default from DEFAULT_QUESTION_COUNT)")
	return cmd
}

func runQuiz(cmd *cobra.Command, args []string) error {
	req, err := readRequest(cmd, models.ModeQuiz)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	req.QuestionCount, _ = cmd.Flags().GetInt("count")
	if req.QuestionCount == 0 {
		req.QuestionCount = a.cfg.DefaultQuestionCount
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generando %d preguntas...\n", req.QuestionCount)

	ctx := cmd.Context()
	start, err := a.quizzes.Create(ctx, a.owner, req, a.apiKey)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(out, "Quiz: %s (%s)\n", start.Quiz.Topic, start.Quiz.Difficulty)

	p := &player{quizzes: a.quizzes, owner: a.owner, in: bufio.NewScanner(cmd.InOrStdin()), out: out}
	return p.play(ctx, start.SessionState)
}

type player struct {
	quizzes services.QuizService
	owner   models.Owner
	in      *bufio.Scanner
	out     io.Writer
}

func (p *player) play(ctx context.Context, state services.SessionState) error {
	for {
		if state.Summary != nil {
			p.printSummary(state)
			return nil
		}
		if state.View.State == quiz.Finished.String() {
			return nil
		}

		p.printQuestion(state.View)
		choice, quit, err := p.readChoice(len(state.View.Question.Options))
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(p.out, "Quiz abandonado, no se otorgan puntos.")
			return nil
		}

		outcome, err := p.quizzes.Answer(ctx, p.owner, state.ID, choice)
		if err != nil {
			return describe(err)
		}
		p.printResult(outcome, state.View.Question.Options)
		if outcome.Summary != nil {
			p.printSummary(outcome.SessionState)
			return nil
		}

		next, err := p.quizzes.Next(ctx, p.owner, state.ID)
		if err != nil {
			return describe(err)
		}
		state = *next
	}
}

func (p *player) printQuestion(v quiz.View) {
	fmt.Fprintf(p.out, "\nPregunta %d/%d  vidas: %d  racha: %d  puntos: %d\n",
		v.CurrentIndex+1, v.TotalQuestions, v.Lives, v.Streak, v.Score)
	fmt.Fprintln(p.out, v.Question.Question)
	for i, o := range v.Question.Options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
}

// readChoice returns a zero-based option, or quit when the player types q.
func (p *player) readChoice(n int) (int, bool, error) {
	for {
		fmt.Fprintf(p.out, "Respuesta [1-%d]: ", n)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, false, err
			}
			return 0, false, fmt.Errorf("input closed before the quiz finished")
		}
		line := strings.TrimSpace(p.in.Text())
		if strings.EqualFold(line, "q") {
			return 0, true, nil
		}
		k, err := strconv.Atoi(line)
		if err == nil && k >= 1 && k <= n {
			return k - 1, false, nil
		}
		fmt.Fprintf(p.out, "Escribe un número entre 1 y %d, o q para salir.\n", n)
	}
}

func (p *player) printResult(o *services.AnswerOutcome, options []string) {
	if o.Result.IsCorrect {
		fmt.Fprintf(p.out, "¡Correcto! +%d\n", o.Result.Gained)
		return
	}
	fmt.Fprintf(p.out, "Incorrecto. La respuesta era: %s\n", options[o.Result.Correct])
}

func (p *player) printSummary(state services.SessionState) {
	v := state.View
	correct := 0
	for _, a := range v.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	fmt.Fprintln(p.out)
	if v.FinishReason == quiz.LivesDepleted {
		fmt.Fprintln(p.out, "Te quedaste sin vidas.")
	}
	fmt.Fprintf(p.out, "Resultado: %d/%d correctas, puntuación %d\n", correct, v.TotalQuestions, v.Score)
	if s := state.Summary; s != nil {
		fmt.Fprintf(p.out, "Puntos ganados: %d  (total %d, racha diaria %d)\n",
			s.Points, s.Stats.TotalPoints, s.Stats.DailyStreak)
	}
}
