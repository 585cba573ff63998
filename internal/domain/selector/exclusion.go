package selector

import "github.com/okian/rosterbias/internal/domain/model"

// ExclusionSet tracks backstories already taken during one solve.
type ExclusionSet struct {
	ids map[string]struct{}
}

// NewExclusionSet returns an empty set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{ids: make(map[string]struct{})}
}

// Add excludes every stage of bg.
func (e *ExclusionSet) Add(bg model.LifeStageBackground) {
	for _, s := range bg.Stages() {
		e.ids[s.ID] = struct{}{}
	}
}

// AddID excludes a single backstory id.
func (e *ExclusionSet) AddID(id string) {
	e.ids[id] = struct{}{}
}

// Contains reports whether the backstory id is excluded. A nil set excludes nothing.
func (e *ExclusionSet) Contains(id string) bool {
	if e == nil {
		return false
	}
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of excluded backstories.
func (e *ExclusionSet) Len() int {
	if e == nil {
		return 0
	}
	return len(e.ids)
}
