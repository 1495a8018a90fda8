// Package modes defines the study-artifact generation modes shared by the
// router, prompt builder, and processing pipeline.
package modes

import "fmt"

// Mode identifies what kind of study artifact is generated from a document.
type Mode string

const (
	ModeStudy      Mode = "study"
	ModeQuiz       Mode = "quiz"
	ModeInterview  Mode = "interview"
	ModeVideo      Mode = "video"
	ModeLabs       Mode = "labs"
	ModeSummary    Mode = "summary"
	ModeFlashcards Mode = "flashcards"
)

// All returns every supported mode in a stable order.
func All() []Mode {
	return []Mode{
		ModeStudy,
		ModeQuiz,
		ModeInterview,
		ModeVideo,
		ModeLabs,
		ModeSummary,
		ModeFlashcards,
	}
}

// Parse converts a user-supplied string into a Mode.
func Parse(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeStudy, ModeQuiz, ModeInterview, ModeVideo, ModeLabs, ModeSummary, ModeFlashcards:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

// JSONOutput reports whether the mode's output contract is strict JSON
// rather than prose sections. The pipeline never parses the JSON itself;
// downstream consumers do.
func (m Mode) JSONOutput() bool {
	return m == ModeQuiz || m == ModeFlashcards
}
