// Package sound plays the short cue that marks the end of a timer phase.
package sound

import (
	"github.com/marcus/pomo/internal/models"
)

// Sound is one selectable notification cue. Pattern is the sequence of
// gaps, in milliseconds, between terminal bells after the first one.
type Sound struct {
	ID      string
	Name    string
	Pattern []int
}

var workSounds = []Sound{
	{ID: "bell", Name: "Calming Bell", Pattern: []int{}},
	{ID: "chime", Name: "Gentle Chime", Pattern: []int{180, 180}},
	{ID: "ding", Name: "Soft Ding", Pattern: []int{90}},
	{ID: "tone", Name: "Meditation Tone", Pattern: []int{600}},
	{ID: "gong", Name: "Tibetan Gong", Pattern: []int{900, 900}},
}

var breakSounds = []Sound{
	{ID: "alert", Name: "Alert Bell", Pattern: []int{150, 150, 150}},
	{ID: "chirp", Name: "Bird Chirp", Pattern: []int{60, 60, 300, 60}},
	{ID: "beep", Name: "Digital Beep", Pattern: []int{250}},
	{ID: "ring", Name: "Phone Ring", Pattern: []int{100, 500, 100}},
	{ID: "whistle", Name: "Soft Whistle", Pattern: []int{400}},
}

// Catalog returns the cues offered for the end of phase p
func Catalog(p models.Phase) []Sound {
	if p == models.PhaseBreak {
		return breakSounds
	}
	return workSounds
}

// Default returns the cue used for p when none is configured
func Default(p models.Phase) Sound {
	return Catalog(p)[0]
}

// Lookup finds id in p's catalog
func Lookup(p models.Phase, id string) (Sound, bool) {
	for _, s := range Catalog(p) {
		if s.ID == id {
			return s, true
		}
	}
	return Sound{}, false
}

// Resolve returns the cue for id, falling back to p's default
func Resolve(p models.Phase, id string) Sound {
	if s, ok := Lookup(p, id); ok {
		return s
	}
	return Default(p)
}

// IDs lists the cue IDs for p in catalog order
func IDs(p models.Phase) []string {
	cat := Catalog(p)
	out := make([]string, len(cat))
	for i, s := range cat {
		out[i] = s.ID
	}
	return out
}
