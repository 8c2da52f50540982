package service

import (
	"context"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

// ContentService exposes lesson modules and quiz questions to the surfaces.
type ContentService struct {
	repository ContentRepository
}

func NewContentService(repository ContentRepository) *ContentService {
	return &ContentService{repository: repository}
}

func (s *ContentService) GetModules(_ context.Context) []entities.LessonModule {
	return s.repository.GetModules()
}

func (s *ContentService) GetModule(_ context.Context, id string) (entities.LessonModule, error) {
	return s.repository.GetModule(id)
}

func (s *ContentService) GetQuestions(_ context.Context) []entities.Question {
	return s.repository.GetQuestions()
}

func (s *ContentService) QuestionCount(_ context.Context) int {
	return s.repository.QuestionCount()
}
