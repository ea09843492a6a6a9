package cohorts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cohort-tools/cohort-tools/internal/platform/cache"
)

// Service applies cohort business rules on top of the repository.
type Service struct {
	repo  Repository
	cache *cache.JSONCache
	now   func() time.Time
}

// NewService constructs a Service. A nil cache sends every list to the repository.
func NewService(repo Repository, listCache *cache.JSONCache) *Service {
	return &Service{repo: repo, cache: listCache, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Cohort, error) {
	key, err := s.cache.BuildKey(ctx, "list")
	if err != nil {
		// Fall back to the store when Redis is unreachable.
		return s.repo.List(ctx)
	}
	var cohorts []Cohort
	err = s.cache.FetchJSON(ctx, key, &cohorts, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cohorts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Cohort, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateCohortRequest) (*Cohort, error) {
	cohort := Cohort{
		ID:             uuid.NewString(),
		Slug:           strings.TrimSpace(req.Slug),
		Name:           strings.TrimSpace(req.Name),
		Program:        req.Program,
		Format:         req.Format,
		Campus:         req.Campus,
		StartDate:      s.now().UTC(),
		EndDate:        req.EndDate,
		ProgramManager: strings.TrimSpace(req.ProgramManager),
		LeadTeacher:    strings.TrimSpace(req.LeadTeacher),
		TotalHours:     DefaultTotalHours,
	}
	if req.StartDate != nil {
		cohort.StartDate = *req.StartDate
	}
	if req.InProgress != nil {
		cohort.InProgress = *req.InProgress
	}
	if req.TotalHours != nil {
		cohort.TotalHours = *req.TotalHours
	}
	if err := validate(cohort); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, cohort)
	if err != nil {
		return nil, fmt.Errorf("create cohort: %w", err)
	}
	s.invalidate(ctx)
	return created, nil
}

// Update merges the provided fields into the stored cohort.
func (s *Service) Update(ctx context.Context, id string, req UpdateCohortRequest) (*Cohort, error) {
	updated, err := s.repo.Update(ctx, id, func(c *Cohort) error {
		req.apply(c)
		return validate(*c)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	// A failed bump leaves stale entries until CACHE_TTL expires them.
	_ = s.cache.Bump(ctx)
}

func (req UpdateCohortRequest) apply(c *Cohort) {
	if req.Slug != nil {
		c.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Program != nil {
		c.Program = *req.Program
	}
	if req.Format != nil {
		c.Format = *req.Format
	}
	if req.Campus != nil {
		c.Campus = *req.Campus
	}
	if req.StartDate != nil {
		c.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = req.EndDate
	}
	if req.InProgress != nil {
		c.InProgress = *req.InProgress
	}
	if req.ProgramManager != nil {
		c.ProgramManager = strings.TrimSpace(*req.ProgramManager)
	}
	if req.LeadTeacher != nil {
		c.LeadTeacher = strings.TrimSpace(*req.LeadTeacher)
	}
	if req.TotalHours != nil {
		c.TotalHours = *req.TotalHours
	}
}
