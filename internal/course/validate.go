package course

import (
	"fmt"
	"strings"
)

// Module count bounds of a valid course.
const (
	MinModules = 3
	MaxModules = 8
)

// ValidationError describes why a course failed the shape check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid course %s: %s", e.Field, e.Message)
}

// Validate checks the shape every course must satisfy: a title, 3 to 8
// modules, and a name, description, icon and duration on each module.
func Validate(c Course) error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "is empty"}
	}
	if n := len(c.Modules); n < MinModules || n > MaxModules {
		return &ValidationError{
			Field:   "modules",
			Message: fmt.Sprintf("has %d entries, want %d-%d", n, MinModules, MaxModules),
		}
	}
	for i, m := range c.Modules {
		for _, f := range []struct{ name, value string }{
			{"name", m.Name},
			{"description", m.Description},
			{"icon", m.Icon},
			{"duration", m.Duration},
		} {
			if strings.TrimSpace(f.value) == "" {
				return &ValidationError{Field: fmt.Sprintf("modules[%d].%s", i, f.name), Message: "is empty"}
			}
		}
	}
	return nil
}
