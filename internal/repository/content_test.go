package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/web"
)

func TestDefaultContent(t *testing.T) {
	repo, err := NewContentRepositoryFromYAML(web.DefaultContent)
	require.NoError(t, err)

	modules := repo.GetModules()
	require.Len(t, modules, 2)
	assert.Equal(t, "budgeting", modules[0].ID)
	assert.Equal(t, "Budgeting Basics", modules[0].Title)
	assert.Equal(t, "saving", modules[1].ID)

	require.Len(t, modules[0].Lessons, 2)
	assert.Equal(t, "income", modules[0].Lessons[0].ID)
	assert.Equal(t, "expenses", modules[0].Lessons[1].ID)
	require.Len(t, modules[1].Lessons, 2)
	assert.Equal(t, "emergency-fund", modules[1].Lessons[0].ID)
	assert.Equal(t, "saving-goals", modules[1].Lessons[1].ID)

	questions := repo.GetQuestions()
	require.Len(t, questions, 2)
	assert.Equal(t, "What is a budget?", questions[0].Question)
	assert.Len(t, questions[0].Options, 4)
	idx, opt := questions[1].CorrectOption()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Money saved for unexpected expenses", opt.Text)
	assert.Equal(t, 2, repo.QuestionCount())
}

func TestGetModulesReturnsCopies(t *testing.T) {
	repo, err := NewContentRepositoryFromYAML(web.DefaultContent)
	require.NoError(t, err)

	first := repo.GetModules()
	first[0].Title = "changed"
	first[0].Lessons[0].Title = "changed"

	q := repo.GetQuestions()
	q[0].Options[0].IsCorrect = false

	again := repo.GetModules()
	assert.Equal(t, "Budgeting Basics", again[0].Title)
	assert.Equal(t, "Understanding Income", again[0].Lessons[0].Title)
	assert.True(t, repo.GetQuestions()[0].Options[0].IsCorrect)
	assert.Equal(t, again, repo.GetModules())
}

func TestGetModule(t *testing.T) {
	repo, err := NewContentRepositoryFromYAML(web.DefaultContent)
	require.NoError(t, err)

	m, err := repo.GetModule("saving")
	require.NoError(t, err)
	assert.Equal(t, "Saving Strategies", m.Title)

	_, err = repo.GetModule("investing")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestNewContentRepositoryFromFile(t *testing.T) {
	dir := t.TempDir()

	jsonDoc := `{
		"modules": [{"id": "credit", "title": "Credit", "description": "Borrowing", "lessons": [
			{"id": "scores", "title": "Credit Scores", "description": "How scores work"}
		]}],
		"questions": [{"question": "What raises a credit score?", "options": [
			{"text": "Paying on time", "isCorrect": true},
			{"text": "Missing payments", "isCorrect": false}
		]}]
	}`
	jsonPath := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonDoc), 0o600))

	repo, err := NewContentRepositoryFromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "credit", repo.GetModules()[0].ID)
	assert.Equal(t, 1, repo.QuestionCount())

	yamlPath := filepath.Join(dir, "content.yml")
	require.NoError(t, os.WriteFile(yamlPath, web.DefaultContent, 0o600))

	repo, err = NewContentRepositoryFromFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, repo.GetModules(), 2)

	tomlPath := filepath.Join(dir, "content.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("x = 1"), 0o600))
	_, err = NewContentRepositoryFromFile(tomlPath)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewContentRepositoryFromFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte("modules: []\nquestions: []\nextra: 1\n"), FormatYAML)
	require.Error(t, err)

	_, err = Decode([]byte(`{"modules": [], "lessons": []}`), FormatJSON)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	validQuestion := entities.Question{
		Question: "What is a budget?",
		Options: []entities.Option{
			{Text: "A plan", IsCorrect: true},
			{Text: "A loan"},
		},
	}

	tests := []struct {
		name    string
		content *Content
		wantErr bool
	}{
		{
			name:    "valid",
			content: &Content{Questions: []entities.Question{validQuestion}},
		},
		{
			name:    "nil",
			content: nil,
			wantErr: true,
		},
		{
			name:    "no questions",
			content: &Content{},
			wantErr: true,
		},
		{
			name: "empty module id",
			content: &Content{
				Modules:   []entities.LessonModule{{Title: "No id"}},
				Questions: []entities.Question{validQuestion},
			},
			wantErr: true,
		},
		{
			name: "module id at length limit",
			content: &Content{
				Modules:   []entities.LessonModule{{ID: strings.Repeat("m", MaxModuleIDLength)}},
				Questions: []entities.Question{validQuestion},
			},
		},
		{
			name: "module id too long",
			content: &Content{
				Modules:   []entities.LessonModule{{ID: strings.Repeat("m", MaxModuleIDLength+1)}},
				Questions: []entities.Question{validQuestion},
			},
			wantErr: true,
		},
		{
			name: "duplicate module id",
			content: &Content{
				Modules:   []entities.LessonModule{{ID: "a"}, {ID: "a"}},
				Questions: []entities.Question{validQuestion},
			},
			wantErr: true,
		},
		{
			name: "duplicate lesson id",
			content: &Content{
				Modules: []entities.LessonModule{{
					ID:      "a",
					Lessons: []entities.Lesson{{ID: "x"}, {ID: "x"}},
				}},
				Questions: []entities.Question{validQuestion},
			},
			wantErr: true,
		},
		{
			name: "same lesson id in different modules",
			content: &Content{
				Modules: []entities.LessonModule{
					{ID: "a", Lessons: []entities.Lesson{{ID: "intro"}}},
					{ID: "b", Lessons: []entities.Lesson{{ID: "intro"}}},
				},
				Questions: []entities.Question{validQuestion},
			},
		},
		{
			name: "single option",
			content: &Content{Questions: []entities.Question{{
				Question: "Q",
				Options:  []entities.Option{{Text: "only", IsCorrect: true}},
			}}},
			wantErr: true,
		},
		{
			name: "no correct option",
			content: &Content{Questions: []entities.Question{{
				Question: "Q",
				Options:  []entities.Option{{Text: "a"}, {Text: "b"}},
			}}},
			wantErr: true,
		},
		{
			name: "two correct options",
			content: &Content{Questions: []entities.Question{{
				Question: "Q",
				Options:  []entities.Option{{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true}},
			}}},
			wantErr: true,
		},
		{
			name: "empty question text",
			content: &Content{Questions: []entities.Question{{
				Question: "  ",
				Options:  validQuestion.Options,
			}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.content)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidContent)
				return
			}
			require.NoError(t, err)
		})
	}
}
