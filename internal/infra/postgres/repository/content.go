package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/internal/infra/postgres"
	contentrepo "github.com/aliskhannn/finpath/internal/repository"
)

type moduleRow struct {
	ID          string
	Title       string
	Description string
}

type lessonRow struct {
	ModuleID    string
	ID          string
	Title       string
	Description string
}

type questionRow struct {
	ID   int64
	Text string
}

type optionRow struct {
	QuestionID int64
	Text       string
	IsCorrect  bool
}

// ContentRepository reads lesson modules and quiz questions from PostgreSQL.
type ContentRepository struct {
	transactor *postgres.Transactor
}

// NewContentRepository creates a new ContentRepository on top of the transactor.
func NewContentRepository(transactor *postgres.Transactor) *ContentRepository {
	return &ContentRepository{transactor: transactor}
}

// Load reads the whole dataset from one snapshot.
func (r *ContentRepository) Load(ctx context.Context) (*contentrepo.Content, error) {
	var (
		modules   []moduleRow
		lessons   []lessonRow
		questions []questionRow
		options   []optionRow
	)

	err := r.transactor.WithinReadOnlyTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		if modules, err = loadModules(ctx, tx); err != nil {
			return err
		}
		if lessons, err = loadLessons(ctx, tx); err != nil {
			return err
		}
		if questions, err = loadQuestions(ctx, tx); err != nil {
			return err
		}
		options, err = loadOptions(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return assemble(modules, lessons, questions, options)
}

func loadModules(ctx context.Context, db postgres.DBTX) ([]moduleRow, error) {
	query := `
		SELECT id, title, description
		FROM modules
		ORDER BY position ASC, id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get modules: %w", err)
	}
	defer rows.Close()

	var out []moduleRow
	for rows.Next() {
		var m moduleRow
		if err := rows.Scan(&m.ID, &m.Title, &m.Description); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func loadLessons(ctx context.Context, db postgres.DBTX) ([]lessonRow, error) {
	query := `
		SELECT module_id, id, title, description
		FROM lessons
		ORDER BY module_id ASC, position ASC, id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get lessons: %w", err)
	}
	defer rows.Close()

	var out []lessonRow
	for rows.Next() {
		var l lessonRow
		if err := rows.Scan(&l.ModuleID, &l.ID, &l.Title, &l.Description); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func loadQuestions(ctx context.Context, db postgres.DBTX) ([]questionRow, error) {
	query := `
		SELECT id, question
		FROM questions
		ORDER BY position ASC, id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	var out []questionRow
	for rows.Next() {
		var q questionRow
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}

	return out, rows.Err()
}

func loadOptions(ctx context.Context, db postgres.DBTX) ([]optionRow, error) {
	query := `
		SELECT question_id, text, is_correct
		FROM options
		ORDER BY question_id ASC, position ASC, id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get options: %w", err)
	}
	defer rows.Close()

	var out []optionRow
	for rows.Next() {
		var o optionRow
		if err := rows.Scan(&o.QuestionID, &o.Text, &o.IsCorrect); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		out = append(out, o)
	}

	return out, rows.Err()
}

// assemble nests lessons under modules and options under questions,
// keeping the order the rows were read in.
func assemble(
	modules []moduleRow,
	lessons []lessonRow,
	questions []questionRow,
	options []optionRow,
) (*contentrepo.Content, error) {
	lessonsByModule := make(map[string][]entities.Lesson, len(modules))
	for _, l := range lessons {
		lessonsByModule[l.ModuleID] = append(lessonsByModule[l.ModuleID], entities.Lesson{
			ID:          l.ID,
			Title:       l.Title,
			Description: l.Description,
		})
	}

	optionsByQuestion := make(map[int64][]entities.Option, len(questions))
	for _, o := range options {
		optionsByQuestion[o.QuestionID] = append(optionsByQuestion[o.QuestionID], entities.Option{
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		})
	}

	c := &contentrepo.Content{
		Modules:   make([]entities.LessonModule, 0, len(modules)),
		Questions: make([]entities.Question, 0, len(questions)),
	}

	known := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		known[m.ID] = struct{}{}
		c.Modules = append(c.Modules, entities.LessonModule{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Lessons:     lessonsByModule[m.ID],
		})
	}

	for moduleID := range lessonsByModule {
		if _, ok := known[moduleID]; !ok {
			return nil, fmt.Errorf("%w: lessons reference unknown module %q", contentrepo.ErrInvalidContent, moduleID)
		}
	}

	for _, q := range questions {
		c.Questions = append(c.Questions, entities.Question{
			Question: q.Text,
			Options:  optionsByQuestion[q.ID],
		})
	}

	return c, nil
}
