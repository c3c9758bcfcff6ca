package service

import (
	"context"
	"strings"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID, fullName string, level domain.FitnessLevel) (*domain.UserProfile, error)
	// FitnessLevelFromAssessment scores questionnaire answers.
	FitnessLevelFromAssessment(a domain.Assessment) (domain.FitnessLevel, int)
}

type profileService struct {
	profiles repository.ProfileRepository
	store    StoreOptions
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profiles repository.ProfileRepository, store StoreOptions) ProfileService {
	return &profileService{profiles: profiles, store: store.withDefaults()}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := read(ctx, s.store, func(ctx context.Context) (*domain.UserProfile, error) {
		return s.profiles.GetByUserID(ctx, userID)
	})
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID, fullName string, level domain.FitnessLevel) (*domain.UserProfile, error) {
	level = domain.FitnessLevel(strings.ToLower(string(level)))
	if !level.Valid() {
		return nil, validationErr("unknown fitness level %q", level)
	}

	_, err := write(ctx, s.store, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.profiles.UpdateBasics(ctx, userID, strings.TrimSpace(fullName), level)
	})
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return s.GetProfile(ctx, userID)
}

func (s *profileService) FitnessLevelFromAssessment(a domain.Assessment) (domain.FitnessLevel, int) {
	return a.Level(), a.Score()
}
