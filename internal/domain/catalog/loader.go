package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/okian/rosterbias/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalogYAML []byte

type fileSkill struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Order    int      `yaml:"order"`
	Typical  bool     `yaml:"typical"`
	Disabled []string `yaml:"disabling_work"`
}

type fileDegree struct {
	Degree      int      `yaml:"degree"`
	Label       string   `yaml:"label"`
	Forced      []string `yaml:"forced_passions"`
	Conflicting []string `yaml:"conflicting_passions"`
}

type fileTrait struct {
	ID        string       `yaml:"id"`
	Label     string       `yaml:"label"`
	Sexuality bool         `yaml:"sexuality"`
	Conflicts []string     `yaml:"conflicts"`
	Degrees   []fileDegree `yaml:"degrees"`
}

type fileTraitRef struct {
	Trait  string `yaml:"trait"`
	Degree int    `yaml:"degree"`
}

type fileBackstory struct {
	ID           string         `yaml:"id"`
	Title        string         `yaml:"title"`
	Stage        string         `yaml:"stage"`
	Shuffleable  *bool          `yaml:"shuffleable"`
	Categories   []string       `yaml:"categories"`
	Skills       map[string]int `yaml:"skills"`
	DisabledWork []string       `yaml:"disabled_work"`
	RequiredWork []string       `yaml:"required_work"`
	ForcedTraits []fileTraitRef `yaml:"forced_traits"`
}

type fileBiography struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Gender    string `yaml:"gender"`
	Childhood string `yaml:"childhood"`
	Adulthood string `yaml:"adulthood"`
}

type catalogFile struct {
	Skills      []fileSkill     `yaml:"skills"`
	Traits      []fileTrait     `yaml:"traits"`
	Backstories []fileBackstory `yaml:"backstories"`
	Biographies []fileBiography `yaml:"biographies"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	return f.build()
}

func (f catalogFile) build() (*Catalog, error) {
	skills := make([]model.Skill, 0, len(f.Skills))
	for _, s := range f.Skills {
		skills = append(skills, model.Skill{
			ID:                      model.SkillID(s.ID),
			Label:                   s.Label,
			Order:                   s.Order,
			TypicallyFromBackground: s.Typical,
			DisablingWork:           workTags(s.Disabled),
		})
	}

	traits := make([]model.Trait, 0, len(f.Traits))
	for _, t := range f.Traits {
		trait := model.Trait{
			ID:        model.TraitID(t.ID),
			Label:     t.Label,
			Sexuality: t.Sexuality,
			Degrees:   make(map[int]model.TraitDegree, len(t.Degrees)),
		}
		for _, c := range t.Conflicts {
			trait.ConflictsWith = append(trait.ConflictsWith, model.TraitID(c))
		}
		for _, d := range t.Degrees {
			trait.Degrees[d.Degree] = model.TraitDegree{
				Label:               d.Label,
				ForcedPassions:      skillIDs(d.Forced),
				ConflictingPassions: skillIDs(d.Conflicting),
			}
		}
		traits = append(traits, trait)
	}

	stories := make([]*model.Backstory, 0, len(f.Backstories))
	byID := make(map[string]*model.Backstory, len(f.Backstories))
	for _, b := range f.Backstories {
		stage, err := model.ParseStage(b.Stage)
		if err != nil {
			return nil, fmt.Errorf("%w: backstory %q: %w", ErrInvalidCatalog, b.ID, err)
		}
		story := &model.Backstory{
			ID:           b.ID,
			Title:        b.Title,
			Stage:        stage,
			Shuffleable:  b.Shuffleable == nil || *b.Shuffleable,
			Categories:   b.Categories,
			SkillBonuses: make(map[model.SkillID]int, len(b.Skills)),
			DisabledWork: workTags(b.DisabledWork),
			RequiredWork: workTags(b.RequiredWork),
		}
		for id, bonus := range b.Skills {
			story.SkillBonuses[model.SkillID(id)] = bonus
		}
		for _, ref := range b.ForcedTraits {
			story.ForcedTraits = append(story.ForcedTraits, model.TraitConstraint{Trait: model.TraitID(ref.Trait), Degree: ref.Degree})
		}
		stories = append(stories, story)
		byID[story.ID] = story
	}

	bios := make([]*model.Biography, 0, len(f.Biographies))
	for _, b := range f.Biographies {
		gender, err := model.ParseGender(b.Gender)
		if err != nil {
			return nil, fmt.Errorf("%w: biography %q: %w", ErrInvalidCatalog, b.ID, err)
		}
		child, ok := byID[b.Childhood]
		if !ok {
			return nil, fmt.Errorf("%w: biography %q references unknown childhood %q", ErrInvalidCatalog, b.ID, b.Childhood)
		}
		adult, ok := byID[b.Adulthood]
		if !ok {
			return nil, fmt.Errorf("%w: biography %q references unknown adulthood %q", ErrInvalidCatalog, b.ID, b.Adulthood)
		}
		bios = append(bios, &model.Biography{ID: b.ID, Name: b.Name, Gender: gender, Childhood: child, Adulthood: adult})
	}

	return New(skills, traits, stories, bios)
}

func workTags(in []string) model.WorkTags {
	out := make(model.WorkTags, 0, len(in))
	for _, t := range in {
		out = append(out, model.WorkTag(t))
	}
	return out
}

func skillIDs(in []string) []model.SkillID {
	out := make([]model.SkillID, 0, len(in))
	for _, s := range in {
		out = append(out, model.SkillID(s))
	}
	return out
}
