package domain

import "strings"

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// MoodRandom asks the composer to pick a mood before picking its descriptor.
const MoodRandom = "random"

var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l, true
	default:
		return l, false
	}
}

// MaxCategories is how many categories an idea request at this level may combine.
// Unknown levels allow none.
func (l Level) MaxCategories() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 0
	}
}

func (l Level) String() string { return string(l) }

// FilterSelection is the caller's request for an idea-mode prompt.
type FilterSelection struct {
	Level    string   `json:"level"`
	Category []string `json:"category"`
	Mood     string   `json:"mood"`
	Style    string   `json:"style,omitempty"`
}

// GeneratedContent is returned by both generation modes. Photos is empty until
// retrieval runs and only ever grows on load-more.
type GeneratedContent struct {
	Sentence string   `json:"sentence"`
	Keywords []string `json:"keywords"`
	Photos   []Photo  `json:"photos"`
}

// AppendPhotos adds a load-more batch. Nil batches leave Photos as an empty array.
func (g *GeneratedContent) AppendPhotos(more []Photo) {
	if g.Photos == nil {
		g.Photos = make([]Photo, 0, len(more))
	}
	g.Photos = append(g.Photos, more...)
}
