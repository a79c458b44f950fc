package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/servicehub-gateway/api/middleware"
	"github.com/angelmondragon/servicehub-gateway/api/responses"
	"github.com/angelmondragon/servicehub-gateway/internal/onboarding"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

type identityInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// OnboardingStatus returns the caller's onboarding status for the stepper UI.
func OnboardingStatus(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		status, err := svc.Status(ctx, userID, middleware.TokenFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// OnboardingInvalidate drops cached onboarding and identity state after a step submit,
// so the next page load sees fresh data.
func OnboardingInvalidate(svc onboarding.Service, identities identityInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		if err := svc.Invalidate(ctx, userID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate onboarding status"))
			return
		}
		if identities != nil {
			if err := identities.Invalidate(ctx, userID); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate identity cache"))
				return
			}
		}
		if logg != nil {
			logg.Info(logg.WithUserID(ctx, userID), "onboarding.status.invalidated")
		}
		responses.WriteSuccess(w, map[string]bool{"invalidated": true})
	}
}
