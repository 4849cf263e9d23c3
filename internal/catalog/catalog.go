// Package catalog serves the static quiz, learning module and game content.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"sort"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

//go:embed content/*.yaml
var content embed.FS

// SupportedMajor is the content file major version this build reads.
const SupportedMajor = "v1"

// Catalog is the immutable content set. It is safe for concurrent use.
type Catalog struct {
	quizzes      map[string]Quiz
	quizOrder    []string
	modules      map[string]LearningModule
	moduleOrder  []string
	games        map[string]GameModule
	gameOrder    []string
	achievements map[string]AchievementDef
}

// Load reads the embedded content.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS reads quizzes.yaml, modules.yaml and games.yaml from fsys and
// validates them.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var qf quizFile
	if err := decode(fsys, "quizzes.yaml", &qf, &qf.Version); err != nil {
		return nil, err
	}
	var mf moduleFile
	if err := decode(fsys, "modules.yaml", &mf, &mf.Version); err != nil {
		return nil, err
	}
	var gf gameFile
	if err := decode(fsys, "games.yaml", &gf, &gf.Version); err != nil {
		return nil, err
	}

	if err := validate(qf, mf, gf); err != nil {
		return nil, err
	}

	c := &Catalog{
		quizzes:      make(map[string]Quiz, len(qf.Quizzes)),
		modules:      make(map[string]LearningModule, len(mf.Modules)),
		games:        make(map[string]GameModule, len(gf.Games)),
		achievements: make(map[string]AchievementDef, len(gf.Achievements)),
	}
	for _, q := range qf.Quizzes {
		c.quizzes[q.Type] = q
		c.quizOrder = append(c.quizOrder, q.Type)
	}
	for _, m := range mf.Modules {
		c.modules[m.Name] = m
		c.moduleOrder = append(c.moduleOrder, m.Name)
	}
	for _, g := range gf.Games {
		c.games[g.Name] = g
		c.gameOrder = append(c.gameOrder, g.Name)
	}
	for _, a := range gf.Achievements {
		c.achievements[a.Type] = a
	}
	return c, nil
}

func decode(fsys fs.FS, name string, v any, version *string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if !semver.IsValid(*version) {
		return fmt.Errorf("%s: invalid version %q", name, *version)
	}
	if major := semver.Major(*version); major != SupportedMajor {
		return fmt.Errorf("%s: unsupported major version %s (want %s)", name, major, SupportedMajor)
	}
	return nil
}

// Quiz returns a copy of the quiz with the given type.
func (c *Catalog) Quiz(quizType string) (Quiz, error) {
	q, ok := c.quizzes[quizType]
	if !ok {
		return Quiz{}, apperr.NotFound("quiz type %q not found", quizType)
	}
	return copyQuiz(q), nil
}

// QuizTypes lists the quiz types in file order.
func (c *Catalog) QuizTypes() []string {
	return slices.Clone(c.quizOrder)
}

// Module returns a copy of the learning module with the given name.
func (c *Catalog) Module(name string) (LearningModule, error) {
	m, ok := c.modules[name]
	if !ok {
		return LearningModule{}, apperr.NotFound("module %q not found", name)
	}
	m.Sections = slices.Clone(m.Sections)
	return m, nil
}

// Modules lists learning module summaries in file order.
func (c *Catalog) Modules() []ModuleSummary {
	out := make([]ModuleSummary, 0, len(c.moduleOrder))
	for _, name := range c.moduleOrder {
		m := c.modules[name]
		out = append(out, ModuleSummary{
			Name:        m.Name,
			Title:       m.Title,
			Description: m.Description,
			Sections:    len(m.Sections),
		})
	}
	return out
}

// Game returns a copy of the game module with the given name.
func (c *Catalog) Game(name string) (GameModule, error) {
	g, ok := c.games[name]
	if !ok {
		return GameModule{}, apperr.NotFound("game module %q not found", name)
	}
	return copyGame(g), nil
}

// Games returns the game modules unlocked at the given player level,
// ordered by required level then name.
func (c *Catalog) Games(level int) []GameModule {
	var out []GameModule
	for _, name := range c.gameOrder {
		g := c.games[name]
		if g.RequiredLevel <= level {
			out = append(out, copyGame(g))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RequiredLevel != out[j].RequiredLevel {
			return out[i].RequiredLevel < out[j].RequiredLevel
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Achievement returns the definition of an achievement type.
func (c *Catalog) Achievement(kind string) (AchievementDef, error) {
	a, ok := c.achievements[kind]
	if !ok {
		return AchievementDef{}, apperr.NotFound("achievement %q not found", kind)
	}
	return a, nil
}

func copyQuiz(q Quiz) Quiz {
	qs := make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		qq.Options = slices.Clone(qq.Options)
		qs[i] = qq
	}
	q.Questions = qs
	return q
}

func copyGame(g GameModule) GameModule {
	cs := make([]Challenge, len(g.Challenges))
	for i, ch := range g.Challenges {
		ch.Options = slices.Clone(ch.Options)
		ch.Hints = slices.Clone(ch.Hints)
		cs[i] = ch
	}
	g.Challenges = cs
	return g
}
