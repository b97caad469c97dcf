package auth

import (
	"context"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

type ProfileService interface {
	Update(ctx context.Context, identityID string, in dto.UpdateProfileRequest) (*core.Profile, error)
}

type profileService struct {
	deps Deps
}

func NewProfileService(deps Deps) ProfileService {
	return &profileService{deps: deps}
}

func (s *profileService) Update(ctx context.Context, identityID string, in dto.UpdateProfileRequest) (*core.Profile, error) {
	return s.deps.Profiles.Update(ctx, identityID, core.ProfileUpdate{
		Name:  in.Name,
		Phone: in.Phone,
	})
}
