package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/gatejohn/internal/http/errors"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	mw "github.com/dropDatabas3/gatejohn/internal/http/middlewares"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// ProfileController maneja PUT /api/auth/update-profile.
type ProfileController struct {
	deps Deps
}

func NewProfileController(deps Deps) *ProfileController {
	return &ProfileController{deps: deps}
}

func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UpdateProfile"))

	var in dto.UpdateProfileRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}
	if in.Name == nil && in.Phone == nil {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Nothing to update"), c.deps.Prod)
		return
	}

	user := mw.GetUser(ctx)
	if user == nil {
		httperrors.WriteErrorStatus(w, http.StatusUnauthorized,
			errors.New("Not authorized, token failed"), c.deps.Prod)
		return
	}

	profile, err := c.deps.Services.Profile.Update(ctx, user.ID, in)
	if err != nil {
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	log.Info("profile updated", logger.UserID(user.ID))
	helpers.WriteData(w, http.StatusOK, profile)
}
