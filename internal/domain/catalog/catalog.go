// Package catalog holds the read-only background, skill and trait catalogs
// the solver consumes, and an in-memory implementation of all three.
package catalog

import (
	"fmt"
	"sort"

	"github.com/okian/rosterbias/internal/domain/model"
)

// Backgrounds is queried by category and gender. Results keep catalog order.
type Backgrounds interface {
	Childhoods(categories []string) []*model.Backstory
	Adulthoods(categories []string) []*model.Backstory
	Biographies(gender model.Gender) []*model.Biography
	Backstory(id string) (*model.Backstory, bool)
	Biography(id string) (*model.Biography, bool)
}

// Skills exposes skill metadata in display order.
type Skills interface {
	Skills() []model.Skill
	Skill(id model.SkillID) (model.Skill, bool)
}

// Traits resolves trait metadata.
type Traits interface {
	Trait(id model.TraitID) (model.Trait, bool)
}

// Catalog is an immutable in-memory catalog implementing Backgrounds, Skills and Traits.
type Catalog struct {
	skills      []model.Skill
	skillByID   map[model.SkillID]model.Skill
	traits      map[model.TraitID]model.Trait
	backstories []*model.Backstory
	storyByID   map[string]*model.Backstory
	bios        []*model.Biography
	bioByID     map[string]*model.Biography
}

// New validates the parts and builds a Catalog. Skills are sorted by display order.
func New(skills []model.Skill, traits []model.Trait, backstories []*model.Backstory, bios []*model.Biography) (*Catalog, error) {
	c := &Catalog{
		skillByID: make(map[model.SkillID]model.Skill, len(skills)),
		traits:    make(map[model.TraitID]model.Trait, len(traits)),
		storyByID: make(map[string]*model.Backstory, len(backstories)),
		bioByID:   make(map[string]*model.Biography, len(bios)),
	}

	for _, s := range skills {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: skill without id", ErrInvalidCatalog)
		}
		if _, dup := c.skillByID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate skill %q", ErrInvalidCatalog, s.ID)
		}
		c.skillByID[s.ID] = s
		c.skills = append(c.skills, s)
	}
	sort.SliceStable(c.skills, func(i, j int) bool { return c.skills[i].Order < c.skills[j].Order })

	for _, t := range traits {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: trait without id", ErrInvalidCatalog)
		}
		c.traits[t.ID] = t
	}

	for _, b := range backstories {
		if b == nil || b.ID == "" {
			return nil, fmt.Errorf("%w: backstory without id", ErrInvalidCatalog)
		}
		if _, dup := c.storyByID[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate backstory %q", ErrInvalidCatalog, b.ID)
		}
		for skill := range b.SkillBonuses {
			if _, ok := c.skillByID[skill]; !ok {
				return nil, fmt.Errorf("%w: backstory %q references unknown skill %q", ErrInvalidCatalog, b.ID, skill)
			}
		}
		c.storyByID[b.ID] = b
		c.backstories = append(c.backstories, b)
	}

	for _, bio := range bios {
		if bio == nil || bio.ID == "" {
			return nil, fmt.Errorf("%w: biography without id", ErrInvalidCatalog)
		}
		if bio.Childhood == nil || bio.Adulthood == nil {
			return nil, fmt.Errorf("%w: biography %q needs both stages", ErrInvalidCatalog, bio.ID)
		}
		c.bioByID[bio.ID] = bio
		c.bios = append(c.bios, bio)
	}
	return c, nil
}

// Empty reports whether the catalog has no skills or nothing to assign.
func (c *Catalog) Empty() bool {
	return len(c.skills) == 0 || (len(c.backstories) == 0 && len(c.bios) == 0)
}

// Skills implements Skills.
func (c *Catalog) Skills() []model.Skill {
	out := make([]model.Skill, len(c.skills))
	copy(out, c.skills)
	return out
}

// Skill implements Skills.
func (c *Catalog) Skill(id model.SkillID) (model.Skill, bool) {
	s, ok := c.skillByID[id]
	return s, ok
}

// Trait implements Traits.
func (c *Catalog) Trait(id model.TraitID) (model.Trait, bool) {
	t, ok := c.traits[id]
	return t, ok
}

// Childhoods implements Backgrounds.
func (c *Catalog) Childhoods(categories []string) []*model.Backstory {
	return c.stage(model.StageChildhood, categories)
}

// Adulthoods implements Backgrounds.
func (c *Catalog) Adulthoods(categories []string) []*model.Backstory {
	return c.stage(model.StageAdulthood, categories)
}

func (c *Catalog) stage(stage model.Stage, categories []string) []*model.Backstory {
	var out []*model.Backstory
	for _, b := range c.backstories {
		if b.Stage == stage && b.InCategory(categories) {
			out = append(out, b)
		}
	}
	return out
}

// Biographies implements Backgrounds.
func (c *Catalog) Biographies(gender model.Gender) []*model.Biography {
	var out []*model.Biography
	for _, b := range c.bios {
		if gender.Accepts(b.Gender) {
			out = append(out, b)
		}
	}
	return out
}

// Backstory implements Backgrounds.
func (c *Catalog) Backstory(id string) (*model.Backstory, bool) {
	b, ok := c.storyByID[id]
	return b, ok
}

// Biography implements Backgrounds.
func (c *Catalog) Biography(id string) (*model.Biography, bool) {
	b, ok := c.bioByID[id]
	return b, ok
}
