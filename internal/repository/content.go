package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

var (
	ErrModuleNotFound    = errors.New("module not found")
	ErrInvalidContent    = errors.New("invalid content")
	ErrUnsupportedFormat = errors.New("unsupported content format")
)

// Content formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// MaxModuleIDLength keeps "module:<id>" within the 64 byte Telegram callback data limit.
const MaxModuleIDLength = 57

// Content is the full lesson and quiz dataset.
type Content struct {
	Modules   []entities.LessonModule `json:"modules" yaml:"modules"`
	Questions []entities.Question     `json:"questions" yaml:"questions"`
}

// ContentRepository provides read-only access to modules and questions
// loaded once at startup. Callers get copies, the underlying data never changes.
type ContentRepository struct {
	modules   []entities.LessonModule
	questions []entities.Question
}

// NewContentRepository validates c and wraps it in a repository.
func NewContentRepository(c *Content) (*ContentRepository, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	r := &ContentRepository{
		modules:   make([]entities.LessonModule, 0, len(c.Modules)),
		questions: make([]entities.Question, 0, len(c.Questions)),
	}
	for _, m := range c.Modules {
		r.modules = append(r.modules, m.Clone())
	}
	for _, q := range c.Questions {
		r.questions = append(r.questions, q.Clone())
	}

	return r, nil
}

// NewContentRepositoryFromFile loads a YAML or JSON content document.
// The format is picked from the file extension.
func NewContentRepositoryFromFile(path string) (*ContentRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := Decode(data, formatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return NewContentRepository(c)
}

// NewContentRepositoryFromYAML loads an in-memory YAML document.
func NewContentRepositoryFromYAML(data []byte) (*ContentRepository, error) {
	c, err := Decode(data, FormatYAML)
	if err != nil {
		return nil, err
	}
	return NewContentRepository(c)
}

// GetModules returns all modules in display order.
func (r *ContentRepository) GetModules() []entities.LessonModule {
	out := make([]entities.LessonModule, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m.Clone())
	}
	return out
}

// GetModule returns the module with the given ID.
func (r *ContentRepository) GetModule(id string) (entities.LessonModule, error) {
	for _, m := range r.modules {
		if m.ID == id {
			return m.Clone(), nil
		}
	}
	return entities.LessonModule{}, ErrModuleNotFound
}

// GetQuestions returns all quiz questions in order.
func (r *ContentRepository) GetQuestions() []entities.Question {
	out := make([]entities.Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, q.Clone())
	}
	return out
}

// QuestionCount returns the number of quiz questions.
func (r *ContentRepository) QuestionCount() int {
	return len(r.questions)
}

// Decode parses a content document in the given format.
func Decode(data []byte, format string) (*Content, error) {
	var c Content

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return &c, nil
}

// Validate checks that c is well formed: unique module and lesson IDs and
// single-answer questions with at least two options.
func Validate(c *Content) error {
	if c == nil {
		return fmt.Errorf("%w: no content", ErrInvalidContent)
	}

	moduleIDs := make(map[string]struct{}, len(c.Modules))
	for i, m := range c.Modules {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("%w: module %d has an empty id", ErrInvalidContent, i)
		}
		if len(m.ID) > MaxModuleIDLength {
			return fmt.Errorf("%w: module id %q is longer than %d bytes", ErrInvalidContent, m.ID, MaxModuleIDLength)
		}
		if _, ok := moduleIDs[m.ID]; ok {
			return fmt.Errorf("%w: duplicate module id %q", ErrInvalidContent, m.ID)
		}
		moduleIDs[m.ID] = struct{}{}

		lessonIDs := make(map[string]struct{}, len(m.Lessons))
		for j, l := range m.Lessons {
			if strings.TrimSpace(l.ID) == "" {
				return fmt.Errorf("%w: lesson %d of module %q has an empty id", ErrInvalidContent, j, m.ID)
			}
			if _, ok := lessonIDs[l.ID]; ok {
				return fmt.Errorf("%w: duplicate lesson id %q in module %q", ErrInvalidContent, l.ID, m.ID)
			}
			lessonIDs[l.ID] = struct{}{}
		}
	}

	if len(c.Questions) == 0 {
		return fmt.Errorf("%w: no quiz questions", ErrInvalidContent)
	}

	for i, q := range c.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question %d has empty text", ErrInvalidContent, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d has %d options, need at least 2", ErrInvalidContent, i+1, len(q.Options))
		}
		if n := q.CorrectCount(); n != 1 {
			return fmt.Errorf("%w: question %d has %d correct options, need exactly 1", ErrInvalidContent, i+1, n)
		}
	}

	return nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}
