package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			return fmt.Errorf("--limit must be positive")
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.Leaderboard().Top(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No scores yet. Run `cyberquest play` to take the quiz!")
			return nil
		}

		fmt.Printf("%-4s  %-24s  %10s  %7s  %8s\n", "Rank", "Player", "Total", "Quizzes", "Best")
		fmt.Println(strings.Repeat("─", 60))
		for _, e := range entries {
			fmt.Printf("%-4d  %-24s  %10.2f  %7d  %8.2f\n",
				e.Rank, truncate(e.DisplayName, 24), e.TotalScore, e.QuizzesCompleted, e.BestScore)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", 10, "Number of players to show")
}
