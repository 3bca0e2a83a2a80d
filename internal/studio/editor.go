package studio

import (
	"fmt"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/model"
)

// Editor tracks an assessment being edited and whether it has unsaved
// changes.
type Editor struct {
	current model.Assessment
	dirty   bool
}

// NewEditor starts editing a copy of a.
func NewEditor(a model.Assessment) *Editor {
	return &Editor{current: a.Clone()}
}

// Apply reduces the edited assessment with intent.
func (e *Editor) Apply(intent Intent) error {
	next, err := Reduce(e.current, intent)
	if err != nil {
		return err
	}
	e.current = next
	e.dirty = true
	return nil
}

// Assessment returns a copy of the edited assessment.
func (e *Editor) Assessment() model.Assessment { return e.current.Clone() }

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool { return e.dirty }

// Save writes the edited assessment to c and clears the dirty flag.
func (e *Editor) Save(c *appstate.Container) error {
	saved, err := Save(c, e.current)
	if err != nil {
		return err
	}
	e.current = saved
	e.dirty = false
	return nil
}

// Save validates a, marks it locally edited and stores it in c as the
// current assessment. Only the local collection changes.
func Save(c *appstate.Container, a model.Assessment) (model.Assessment, error) {
	for i, q := range a.Questions {
		if err := q.Validate(); err != nil {
			return a, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	a = a.Clone()
	a.LocalEdits = true
	a.QuestionCount = len(a.Questions)
	c.UpsertAssessment(a)
	c.SetCurrentAssessment(&a)
	return a, nil
}
