package composer

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/yungbote/artprompt-backend/internal/domain"
)

// Rand is the randomness the composer draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Taxonomy is the read-only table lookup the composer samples from.
type Taxonomy interface {
	SubjectsOf(category string) ([]string, error)
	DescriptorsOf(mood string) ([]string, error)
	AllCategories() []string
	AllMoods() []string
	AllStyles() []string
	AllTools() []string
}

// Result is one generated prompt plus the draws that produced it.
type Result struct {
	Sentence   string
	Keywords   []string
	Categories []string
	Subjects   []string
	Descriptor string
	Tool       string
	Style      string
}

type Composer struct {
	tax Taxonomy
	rng Rand
}

// New returns a Composer. A nil rng uses the process-wide math/rand/v2 source,
// which is safe for concurrent callers.
func New(tax Taxonomy, rng Rand) *Composer {
	if rng == nil {
		rng = globalRand{}
	}
	return &Composer{tax: tax, rng: rng}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Pick returns a uniformly random element of items, or false when items is empty.
func Pick[T any](rng Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[rng.IntN(len(items))], true
}

// SampleSubject draws one subject of category, falling back to the category
// name itself when it has no subjects.
func (c *Composer) SampleSubject(category string) string {
	subjects, err := c.tax.SubjectsOf(category)
	if err != nil {
		return category
	}
	if s, ok := Pick(c.rng, subjects); ok {
		return s
	}
	return category
}

// SampleDescriptor draws one adjective for mood. "random" first draws a mood.
func (c *Composer) SampleDescriptor(mood string) string {
	if strings.EqualFold(strings.TrimSpace(mood), domain.MoodRandom) {
		if m, ok := Pick(c.rng, c.tax.AllMoods()); ok {
			mood = m
		}
	}
	descriptors, err := c.tax.DescriptorsOf(mood)
	if err != nil {
		return mood
	}
	if d, ok := Pick(c.rng, descriptors); ok {
		return d
	}
	return mood
}

// Idea builds a free-form prompt from the caller's filters. Subjects are drawn
// once per category in the order given. Style only steers photo search and is
// never part of the sentence.
func (c *Composer) Idea(sel domain.FilterSelection) (Result, error) {
	level, ok := domain.ParseLevel(sel.Level)
	if !ok {
		return Result{}, domain.Invalid("level", "unknown level %q", sel.Level)
	}
	if n := len(sel.Category); n < 1 || n > level.MaxCategories() {
		return Result{}, domain.Invalid("category", "%s allows 1 to %d categories, got %d", level, level.MaxCategories(), n)
	}

	subjects := make([]string, 0, len(sel.Category))
	for _, category := range sel.Category {
		subjects = append(subjects, c.SampleSubject(category))
	}
	descriptor := c.SampleDescriptor(sel.Mood)

	keywords := append([]string(nil), subjects...)
	style := strings.TrimSpace(sel.Style)
	if style != "" {
		keywords = append(keywords, style)
	}

	return Result{
		Sentence:   fmt.Sprintf("Imagine a combination of %s %s", descriptor, JoinSubjects(subjects)),
		Keywords:   keywords,
		Categories: append([]string(nil), sel.Category...),
		Subjects:   subjects,
		Descriptor: descriptor,
		Style:      style,
	}, nil
}

// JoinSubjects renders "A", "A and B" or "A and B and C".
func JoinSubjects(subjects []string) string {
	return strings.Join(subjects, " and ")
}

// Challenge builds a fully randomized prompt whose size grows with level.
func (c *Composer) Challenge(levelName string) (Result, error) {
	level, ok := domain.ParseLevel(levelName)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, levelName)
	}

	tool, ok := Pick(c.rng, c.tax.AllTools())
	if !ok {
		return Result{}, fmt.Errorf("%w: no tools configured", domain.ErrSamplingExhausted)
	}

	categories, err := c.distinctCategories(level.MaxCategories())
	if err != nil {
		return Result{}, err
	}
	subjects := make([]string, len(categories))
	for i, category := range categories {
		subjects[i] = c.SampleSubject(category)
	}

	res := Result{Categories: categories, Subjects: subjects, Tool: tool}
	switch level {
	case domain.LevelBeginner:
		res.Sentence = fmt.Sprintf("Create a painting of %s", subjects[0])
		res.Keywords = []string{subjects[0], tool}
	case domain.LevelIntermediate:
		res.Sentence = fmt.Sprintf("Create a painting with %s using %s", JoinSubjects(subjects), tool)
		res.Keywords = []string{subjects[0], subjects[1], tool}
	case domain.LevelAdvanced:
		style, ok := Pick(c.rng, c.tax.AllStyles())
		if !ok {
			return Result{}, fmt.Errorf("%w: no styles configured", domain.ErrSamplingExhausted)
		}
		res.Style = style
		res.Sentence = fmt.Sprintf("Create a painting with %s using %s in the style of %s", JoinSubjects(subjects), tool, style)
		res.Keywords = []string{subjects[0], subjects[1], subjects[2], tool, style}
	}
	return res, nil
}

// attemptsPerCategory bounds rejection sampling so a shrunken taxonomy fails
// instead of spinning.
const attemptsPerCategory = 4

// distinctCategories draws n pairwise-distinct categories by redrawing on collision.
func (c *Composer) distinctCategories(n int) ([]string, error) {
	all := c.tax.AllCategories()
	if n > len(all) {
		return nil, fmt.Errorf("%w: need %d distinct categories, have %d", domain.ErrSamplingExhausted, n, len(all))
	}
	maxAttempts := attemptsPerCategory * len(all)

	out := make([]string, 0, n)
	for len(out) < n {
		drawn := false
		for attempt := 0; attempt < maxAttempts; attempt++ {
			candidate, _ := Pick(c.rng, all)
			if !slices.Contains(out, candidate) {
				out = append(out, candidate)
				drawn = true
				break
			}
		}
		if !drawn {
			return nil, fmt.Errorf("%w: no distinct category after %d draws", domain.ErrSamplingExhausted, maxAttempts)
		}
	}
	return out, nil
}
