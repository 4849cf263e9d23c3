package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/course"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Print a synthesized course for a tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tierFlag, _ := cmd.Flags().GetString("tier")
		weakFlag, _ := cmd.Flags().GetStringSlice("weak")
		asJSON, _ := cmd.Flags().GetBool("json")

		tier, err := assessment.ParseTier(tierFlag)
		if err != nil {
			return err
		}
		weak := make([]assessment.Topic, 0, len(weakFlag))
		for _, w := range weakFlag {
			if w = strings.TrimSpace(w); w != "" {
				weak = append(weak, assessment.Topic(w))
			}
		}

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		synth, closeCache := newSynthesizer(ctx, cfg, newProvider(ctx, cfg, st))
		defer closeCache()

		c, strategy := synth.Synthesize(ctx, course.Request{Tier: tier, Weak: weak})
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		}

		fmt.Printf("%s  [%s]\n", c.Title, strategy)
		fmt.Println(c.Description)
		fmt.Println(strings.Repeat("─", 60))
		for i, m := range c.Modules {
			fmt.Printf("%d. %s %s  (%s, %s)\n", i+1, m.Icon, m.Name, m.Duration, m.Difficulty)
			fmt.Printf("   %s\n", m.Description)
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println("Estimated duration:", c.EstimatedDuration)
		return nil
	},
}

func init() {
	courseCmd.Flags().String("tier", string(assessment.Beginner), "Skill tier: beginner, intermediate or advanced")
	courseCmd.Flags().StringSlice("weak", nil, "Weak topics, e.g. password_security,phishing_detection")
	courseCmd.Flags().Bool("json", false, "Print the course as JSON")
}
