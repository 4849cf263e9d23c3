package catalog

// Question is one multiple-choice quiz question. CorrectAnswer and
// Explanation are never serialized to clients before submission.
type Question struct {
	ID            int      `yaml:"id" json:"id"`
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer string   `yaml:"correct_answer" json:"-"`
	Explanation   string   `yaml:"explanation" json:"-"`
}

// Quiz is an ordered question set identified by its type.
type Quiz struct {
	Type       string     `yaml:"type" json:"quiz_type"`
	Title      string     `yaml:"title" json:"title"`
	Assessment bool       `yaml:"assessment" json:"assessment"`
	Questions  []Question `yaml:"questions" json:"questions"`
}

// Question returns the question with the given id.
func (q Quiz) Question(id int) (Question, bool) {
	for _, qq := range q.Questions {
		if qq.ID == id {
			return qq, true
		}
	}
	return Question{}, false
}

// Section is one titled block of a learning module.
type Section struct {
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
}

// LearningModule is static reading content.
type LearningModule struct {
	Name        string    `yaml:"name" json:"name"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Sections    []Section `yaml:"sections" json:"sections"`
}

// ModuleSummary is the listing view of a learning module.
type ModuleSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Sections    int    `json:"section_count"`
}

// Difficulty grades a game challenge.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// DefaultPoints is awarded for a correct challenge answer when the
// challenge does not set its own value.
const DefaultPoints = 100

// Challenge is one entry of a game module's bank.
type Challenge struct {
	ID            string     `yaml:"id" json:"id"`
	Title         string     `yaml:"title" json:"title"`
	Question      string     `yaml:"question" json:"question"`
	URL           string     `yaml:"url,omitempty" json:"url,omitempty"`
	Options       []string   `yaml:"options" json:"options"`
	CorrectAnswer string     `yaml:"correct_answer" json:"-"`
	Explanation   string     `yaml:"explanation" json:"-"`
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
	Points        int        `yaml:"points,omitempty" json:"points"`
	Hints         []string   `yaml:"hints,omitempty" json:"hints,omitempty"`
}

// Award returns the points for answering c correctly.
func (c Challenge) Award() int {
	if c.Points > 0 {
		return c.Points
	}
	return DefaultPoints
}

// GameModule is a playable challenge module.
type GameModule struct {
	Name              string      `yaml:"name" json:"name"`
	Title             string      `yaml:"title" json:"title"`
	Description       string      `yaml:"description" json:"description"`
	Icon              string      `yaml:"icon" json:"icon"`
	Difficulty        Difficulty  `yaml:"difficulty" json:"difficulty"`
	EstimatedTime     string      `yaml:"estimated_time" json:"estimated_time"`
	RequiredLevel     int         `yaml:"required_level" json:"required_level"`
	Length            int         `yaml:"length" json:"challenges_count"`
	MasterAchievement string      `yaml:"master_achievement" json:"-"`
	Challenges        []Challenge `yaml:"challenges" json:"-"`
}

// AchievementDef describes an achievement that can be awarded once per
// player.
type AchievementDef struct {
	Type        string `yaml:"type" json:"type"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	XP          int    `yaml:"xp" json:"xp"`
}

type quizFile struct {
	Version string `yaml:"version"`
	Quizzes []Quiz `yaml:"quizzes"`
}

type moduleFile struct {
	Version string           `yaml:"version"`
	Modules []LearningModule `yaml:"modules"`
}

type gameFile struct {
	Version      string           `yaml:"version"`
	Achievements []AchievementDef `yaml:"achievements"`
	Games        []GameModule     `yaml:"games"`
}
