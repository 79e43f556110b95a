package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/artprompt-backend/internal/domain"
)

// Taxonomy holds the category, mood, style and tool tables. It is never mutated
// after New returns, so concurrent readers need no locking. Lookups ignore case;
// the maps below are keyed by the folded name and hold the declared spelling.
type Taxonomy struct {
	categories   []string
	categoryName map[string]string
	subjects     map[string][]string
	aliases      map[string]string
	moods        []string
	moodName     map[string]string
	descriptors  map[string][]string
	styles       []string
	styleName    map[string]string
	tools        []string
}

// Entry is one named list from the document, kept in document order.
type Entry struct {
	Name  string
	Items []string
}

// Spec is the decoded form of a taxonomy document.
type Spec struct {
	Categories Entries           `yaml:"categories"`
	Aliases    map[string]string `yaml:"aliases"`
	Moods      Entries           `yaml:"moods"`
	Styles     []string          `yaml:"styles"`
	Tools      []string          `yaml:"tools"`
}

// New validates spec and builds an immutable Taxonomy. Empty subject or
// descriptor lists are accepted; the composer falls back to the identifier.
func New(spec Spec) (*Taxonomy, error) {
	t := &Taxonomy{
		categoryName: make(map[string]string, len(spec.Categories)),
		subjects:     make(map[string][]string, len(spec.Categories)),
		aliases:      make(map[string]string, len(spec.Aliases)),
		moodName:     make(map[string]string, len(spec.Moods)),
		descriptors:  make(map[string][]string, len(spec.Moods)),
		styleName:    make(map[string]string, len(spec.Styles)),
	}

	if len(spec.Categories) == 0 {
		return nil, errors.New("taxonomy: at least one category is required")
	}
	for _, e := range spec.Categories {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, errors.New("taxonomy: blank category name")
		}
		k := fold(name)
		if _, dup := t.categoryName[k]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate category %q", name)
		}
		t.categories = append(t.categories, name)
		t.categoryName[k] = name
		t.subjects[k] = cleanList(e.Items)
	}

	for alias, target := range spec.Aliases {
		alias, target = strings.TrimSpace(alias), strings.TrimSpace(target)
		if _, ok := t.categoryName[fold(target)]; !ok {
			return nil, fmt.Errorf("taxonomy: alias %q points at unknown category %q", alias, target)
		}
		if _, clash := t.categoryName[fold(alias)]; clash {
			return nil, fmt.Errorf("taxonomy: alias %q shadows a category", alias)
		}
		t.aliases[fold(alias)] = fold(target)
	}

	if len(spec.Moods) == 0 {
		return nil, errors.New("taxonomy: at least one mood is required")
	}
	for _, e := range spec.Moods {
		name := strings.TrimSpace(e.Name)
		switch {
		case name == "":
			return nil, errors.New("taxonomy: blank mood name")
		case strings.EqualFold(name, domain.MoodRandom):
			return nil, fmt.Errorf("taxonomy: mood name %q is reserved", domain.MoodRandom)
		}
		k := fold(name)
		if _, dup := t.moodName[k]; dup {
			return nil, fmt.Errorf("taxonomy: duplicate mood %q", name)
		}
		t.moods = append(t.moods, name)
		t.moodName[k] = name
		t.descriptors[k] = cleanList(e.Items)
	}

	t.styles = cleanList(spec.Styles)
	if len(t.styles) == 0 {
		return nil, errors.New("taxonomy: at least one style is required")
	}
	for _, s := range t.styles {
		if _, ok := t.styleName[fold(s)]; !ok {
			t.styleName[fold(s)] = s
		}
	}

	t.tools = cleanList(spec.Tools)
	if len(t.tools) == 0 {
		return nil, errors.New("taxonomy: at least one tool is required")
	}

	return t, nil
}

// Canonical resolves a category name or alias, in any case, to the declared
// category. Unknown names are returned trimmed but otherwise unchanged.
func (t *Taxonomy) Canonical(category string) string {
	if name, ok := t.categoryName[t.categoryKey(category)]; ok {
		return name
	}
	return strings.TrimSpace(category)
}

// CanonicalMood returns the declared spelling of mood, or mood trimmed when unknown.
func (t *Taxonomy) CanonicalMood(mood string) string {
	if name, ok := t.moodName[fold(mood)]; ok {
		return name
	}
	return strings.TrimSpace(mood)
}

// CanonicalStyle returns the declared spelling of style, or style trimmed when unknown.
func (t *Taxonomy) CanonicalStyle(style string) string {
	if name, ok := t.styleName[fold(style)]; ok {
		return name
	}
	return strings.TrimSpace(style)
}

func (t *Taxonomy) HasCategory(category string) bool {
	_, ok := t.categoryName[t.categoryKey(category)]
	return ok
}

func (t *Taxonomy) HasMood(mood string) bool {
	_, ok := t.moodName[fold(mood)]
	return ok
}

func (t *Taxonomy) HasStyle(style string) bool {
	_, ok := t.styleName[fold(style)]
	return ok
}

func (t *Taxonomy) SubjectsOf(category string) ([]string, error) {
	subjects, ok := t.subjects[t.categoryKey(category)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	return clone(subjects), nil
}

func (t *Taxonomy) DescriptorsOf(mood string) ([]string, error) {
	descriptors, ok := t.descriptors[fold(mood)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMood, mood)
	}
	return clone(descriptors), nil
}

func (t *Taxonomy) categoryKey(category string) string {
	k := fold(category)
	if target, ok := t.aliases[k]; ok {
		return target
	}
	return k
}

func (t *Taxonomy) AllCategories() []string { return clone(t.categories) }
func (t *Taxonomy) AllMoods() []string      { return clone(t.moods) }
func (t *Taxonomy) AllStyles() []string     { return clone(t.styles) }
func (t *Taxonomy) AllTools() []string      { return clone(t.tools) }

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
