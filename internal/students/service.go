package students

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service applies student business rules on top of the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]PopulatedStudent, error) {
	return s.repo.List(ctx)
}

// ListByCohort returns the students referencing cohortID. Unknown ids yield an empty list.
func (s *Service) ListByCohort(ctx context.Context, cohortID string) ([]PopulatedStudent, error) {
	return s.repo.ListByCohort(ctx, cohortID)
}

func (s *Service) Get(ctx context.Context, id string) (*PopulatedStudent, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a student. The cohort reference is not checked against existing cohorts.
func (s *Service) Create(ctx context.Context, req CreateStudentRequest) (*Student, error) {
	student := Student{
		ID:          uuid.NewString(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		LinkedinURL: strings.TrimSpace(req.LinkedinURL),
		Languages:   orEmpty(req.Languages),
		Program:     req.Program,
		Background:  req.Background,
		Image:       strings.TrimSpace(req.Image),
		Projects:    orEmpty(req.Projects),
	}
	if student.Image == "" {
		student.Image = DefaultImage
	}
	if ref := strings.TrimSpace(string(req.Cohort)); ref != "" {
		student.CohortID = &ref
	}
	if err := validate(student); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return created, nil
}

// Update merges the provided fields into the stored student.
func (s *Service) Update(ctx context.Context, id string, req UpdateStudentRequest) (*Student, error) {
	return s.repo.Update(ctx, id, func(st *Student) error {
		req.apply(st)
		return validate(*st)
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (req UpdateStudentRequest) apply(st *Student) {
	if req.FirstName != nil {
		st.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		st.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		st.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		st.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.LinkedinURL != nil {
		st.LinkedinURL = strings.TrimSpace(*req.LinkedinURL)
	}
	if req.Languages != nil {
		st.Languages = orEmpty(*req.Languages)
	}
	if req.Program != nil {
		st.Program = *req.Program
	}
	if req.Background != nil {
		st.Background = *req.Background
	}
	if req.Image != nil {
		st.Image = strings.TrimSpace(*req.Image)
		if st.Image == "" {
			st.Image = DefaultImage
		}
	}
	if req.Cohort != nil {
		if ref := strings.TrimSpace(string(*req.Cohort)); ref != "" {
			st.CohortID = &ref
		} else {
			st.CohortID = nil
		}
	}
	if req.Projects != nil {
		st.Projects = orEmpty(*req.Projects)
	}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
