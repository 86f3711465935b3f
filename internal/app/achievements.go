package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/disciplineos/internal/metrics"
	"github.com/blackwell-systems/disciplineos/internal/output"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show every achievement, unlocked or not, by category",
	RunE:  runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

// achievementsResult is the JSON shape of 'achievements'.
type achievementsResult struct {
	Unlocked       int                   `json:"unlocked"`
	Total          int                   `json:"total"`
	Counters       metrics.Counters      `json:"counters"`
	Achievements   []metrics.Achievement `json:"achievements"`
	NextMilestones []metrics.Achievement `json:"next_milestones"`
}

func runAchievements(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := s.dashboard(cmd.Context())
	if err != nil {
		return err
	}
	if flagJSON {
		return s.printJSON(achievementsResult{
			Unlocked:       d.UnlockedCount,
			Total:          d.TotalCount,
			Counters:       d.Counters,
			Achievements:   d.Achievements,
			NextMilestones: d.NextMilestones,
		})
	}

	s.printf(" %s %s\n", output.StyleBold.Render("Achievements"),
		output.StyleMuted.Render(fmt.Sprintf("%d/%d unlocked", d.UnlockedCount, d.TotalCount)))

	groups := metrics.ByCategory(d.Achievements)
	for _, cat := range metrics.Categories {
		list := groups[cat]
		if len(list) == 0 {
			continue
		}
		s.println(output.Section(cat.Title()))
		for _, a := range list {
			name := a.Name
			if a.Unlocked {
				name = output.StyleSuccess.Render(name)
			} else {
				name = output.StyleMuted.Render(name)
			}
			s.printf(" %s %s %s  %s\n", output.Check(a.Unlocked), a.Icon, output.StyleLabel.Render(name),
				output.StyleMuted.Render(fmt.Sprintf("%s (%d/%d)", a.Description, a.Progress, a.Requirement)))
		}
	}
	s.println()
	return nil
}
