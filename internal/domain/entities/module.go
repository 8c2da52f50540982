// Package entities contains domain entities used across the application.
package entities

// LessonModule is a named grouping of related lessons.
type LessonModule struct {
	ID          string   `json:"id" yaml:"id"`                   // unique module identifier, e.g. "budgeting"
	Title       string   `json:"title" yaml:"title"`             // module heading
	Description string   `json:"description" yaml:"description"` // one line summary shown under the title
	Lessons     []Lesson `json:"lessons" yaml:"lessons"`         // lessons in display order
}

// Lesson is a single unit of instructional content.
type Lesson struct {
	ID          string `json:"id" yaml:"id"` // unique within its module
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Clone returns a deep copy of the module.
func (m LessonModule) Clone() LessonModule {
	out := m
	out.Lessons = append([]Lesson(nil), m.Lessons...)
	return out
}
