package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberquestjr/cyberquest/internal/app"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/screens/quiz"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take the skill assessment in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay opens the store, builds the course synthesizer and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	synth, closeCache := newSynthesizer(ctx, cfg, newProvider(ctx, cfg, st))
	defer closeCache()

	quizType, _ := cmd.Flags().GetString("quiz")
	return app.Run(ctx, app.Options{
		Catalog:  cat,
		QuizType: quizType,
		Deps: quiz.Deps{
			Attempts:    st.Attempts(),
			Leaderboard: st.Leaderboard(),
			Courses:     synth,
		},
	})
}

func init() {
	playCmd.Flags().String("quiz", app.DefaultQuiz, "Quiz to take")
}
