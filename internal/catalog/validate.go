package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// validate performs the structural checks on freshly decoded content.
// Returns a combined error describing all problems found, or nil if valid.
func validate(qf quizFile, mf moduleFile, gf gameFile) error {
	var errs []string

	quizTypes := make(map[string]bool, len(qf.Quizzes))
	for _, q := range qf.Quizzes {
		if q.Type == "" {
			errs = append(errs, "quiz with empty type")
		}
		if quizTypes[q.Type] {
			errs = append(errs, fmt.Sprintf("duplicate quiz type: %q", q.Type))
		}
		quizTypes[q.Type] = true
		if len(q.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("quiz %q has no questions", q.Type))
		}

		ids := make(map[int]bool, len(q.Questions))
		for _, qq := range q.Questions {
			if ids[qq.ID] {
				errs = append(errs, fmt.Sprintf("quiz %q: duplicate question id %d", q.Type, qq.ID))
			}
			ids[qq.ID] = true
			if !slices.Contains(qq.Options, qq.CorrectAnswer) {
				errs = append(errs, fmt.Sprintf("quiz %q question %d: correct answer is not an option", q.Type, qq.ID))
			}
		}
	}

	names := make(map[string]bool, len(mf.Modules))
	for _, m := range mf.Modules {
		if names[m.Name] {
			errs = append(errs, fmt.Sprintf("duplicate module: %q", m.Name))
		}
		names[m.Name] = true
		if len(m.Sections) == 0 {
			errs = append(errs, fmt.Sprintf("module %q has no sections", m.Name))
		}
	}

	achievements := make(map[string]bool, len(gf.Achievements))
	for _, a := range gf.Achievements {
		achievements[a.Type] = true
		if a.XP <= 0 {
			errs = append(errs, fmt.Sprintf("achievement %q must grant xp", a.Type))
		}
	}

	games := make(map[string]bool, len(gf.Games))
	for _, g := range gf.Games {
		if games[g.Name] {
			errs = append(errs, fmt.Sprintf("duplicate game module: %q", g.Name))
		}
		games[g.Name] = true
		if g.Length <= 0 {
			errs = append(errs, fmt.Sprintf("game module %q: length must be positive", g.Name))
		}
		if len(g.Challenges) == 0 {
			errs = append(errs, fmt.Sprintf("game module %q has an empty challenge bank", g.Name))
		}
		if g.MasterAchievement != "" && !achievements[g.MasterAchievement] {
			errs = append(errs, fmt.Sprintf("game module %q references unknown achievement %q", g.Name, g.MasterAchievement))
		}
		for _, ch := range g.Challenges {
			if !slices.Contains(ch.Options, ch.CorrectAnswer) {
				errs = append(errs, fmt.Sprintf("challenge %q: correct answer is not an option", ch.ID))
			}
			switch ch.Difficulty {
			case Beginner, Intermediate, Advanced:
			default:
				errs = append(errs, fmt.Sprintf("challenge %q: unknown difficulty %q", ch.ID, ch.Difficulty))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("catalog validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
