package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/servicehub-gateway/api/middleware"
	"github.com/angelmondragon/servicehub-gateway/internal/onboarding"
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
)

type stubOnboarding struct {
	status      *onboarding.Status
	err         error
	invalidated []string
}

func (s *stubOnboarding) Status(ctx context.Context, userID, token string) (*onboarding.Status, error) {
	return s.status, s.err
}

func (s *stubOnboarding) Invalidate(ctx context.Context, userID string) error {
	s.invalidated = append(s.invalidated, userID)
	return nil
}

type stubIdentities struct {
	invalidated []string
	err         error
}

func (s *stubIdentities) Invalidate(ctx context.Context, userID string) error {
	s.invalidated = append(s.invalidated, userID)
	return s.err
}

func withProvider(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), "p1", enums.RoleProvider, "tok"))
}

func TestOnboardingStatusReturnsEnvelope(t *testing.T) {
	svc := &stubOnboarding{status: &onboarding.Status{
		Profile:  onboarding.Profile{HasAddress: true},
		NextStep: enums.OnboardingStepBusiness,
	}}

	resp := httptest.NewRecorder()
	OnboardingStatus(svc, nil).ServeHTTP(resp, withProvider(httptest.NewRequest(http.MethodGet, "/api/gateway/onboarding/status", nil)))

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data struct {
			NextStep string `json:"nextStep"`
			Complete bool   `json:"complete"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "business", body.Data.NextStep)
	assert.False(t, body.Data.Complete)
}

func TestOnboardingStatusSurfacesCollaboratorFailure(t *testing.T) {
	svc := &stubOnboarding{err: pkgerrors.New(pkgerrors.CodeCollaboratorUnavailable, "business unavailable")}

	resp := httptest.NewRecorder()
	OnboardingStatus(svc, nil).ServeHTTP(resp, withProvider(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestOnboardingStatusRequiresUser(t *testing.T) {
	resp := httptest.NewRecorder()
	OnboardingStatus(&stubOnboarding{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestOnboardingInvalidateDropsBothCaches(t *testing.T) {
	svc := &stubOnboarding{}
	ids := &stubIdentities{}

	resp := httptest.NewRecorder()
	OnboardingInvalidate(svc, ids, nil).ServeHTTP(resp, withProvider(httptest.NewRequest(http.MethodPost, "/", nil)))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"p1"}, svc.invalidated)
	assert.Equal(t, []string{"p1"}, ids.invalidated)
}

func TestOnboardingInvalidateIdentityFailure(t *testing.T) {
	ids := &stubIdentities{err: errors.New("redis down")}

	resp := httptest.NewRecorder()
	OnboardingInvalidate(&stubOnboarding{}, ids, nil).ServeHTTP(resp, withProvider(httptest.NewRequest(http.MethodPost, "/", nil)))

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
