package onboarding

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/servicehub-gateway/internal/routing"
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
)

func TestGateRedirectsToFirstIncompleteStep(t *testing.T) {
	gate, _ := newTestGate(Profile{HasAddress: false, HasBusiness: true, HasSlots: true}, nil)

	d := gate.Check(context.Background(), httptest.NewRequest("GET", "/provider/dashboard", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionRedirect {
		t.Fatalf("expected redirect, got %+v", d)
	}
	if d.Location != "/provider/onboard?step=address" {
		t.Fatalf("unexpected location %q", d.Location)
	}
}

func TestGateCompleteProviderLeavesOnboarding(t *testing.T) {
	gate, _ := newTestGate(Profile{HasAddress: true, HasBusiness: true, HasSlots: true}, nil)

	d := gate.Check(context.Background(), httptest.NewRequest("GET", "/provider/onboard?step=business", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionRedirect || d.Location != "/provider/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %+v", d)
	}

	d = gate.Check(context.Background(), httptest.NewRequest("GET", "/provider/bookings", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionPass {
		t.Fatalf("expected pass for complete provider, got %+v", d)
	}
}

func TestGateDoesNotRedirectToItself(t *testing.T) {
	profiles := map[enums.OnboardingStep]Profile{
		enums.OnboardingStepAddress:  {},
		enums.OnboardingStepBusiness: {HasAddress: true},
		enums.OnboardingStepSlots:    {HasAddress: true, HasBusiness: true},
	}
	for step, p := range profiles {
		gate, _ := newTestGate(p, nil)
		target := OnboardingLocation("/provider/onboard", step)
		d := gate.Check(context.Background(), httptest.NewRequest("GET", target, nil), enums.RoleProvider, "p1", "tok")
		if d.Action != ActionPass {
			t.Fatalf("step %s: expected pass on own onboarding page, got %+v", step, d)
		}
	}
}

func TestGateCorrectsManuallyEditedStep(t *testing.T) {
	gate, _ := newTestGate(Profile{HasAddress: true}, nil)

	d := gate.Check(context.Background(), httptest.NewRequest("GET", "/provider/onboard?step=slots", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionRedirect || d.Location != "/provider/onboard?step=business" {
		t.Fatalf("expected correction to business, got %+v", d)
	}

	d = gate.Check(context.Background(), httptest.NewRequest("GET", "/provider/onboard", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionRedirect || d.Location != "/provider/onboard?step=business" {
		t.Fatalf("expected step param to be added, got %+v", d)
	}

	d = gate.Check(context.Background(), httptest.NewRequest("GET", "/provider/onboard?step=payment", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionRedirect || d.Location != "/provider/onboard?step=business" {
		t.Fatalf("expected unknown step to be corrected, got %+v", d)
	}
}

func TestGateFailsOpen(t *testing.T) {
	failure := pkgerrors.New(pkgerrors.CodeCollaboratorUnavailable, "business unavailable").
		WithDetails(map[string]any{"collaborator": "business"})
	gate, rec := newTestGate(Profile{}, failure)

	for _, p := range []string{"/provider/dashboard", "/provider/onboard?step=address"} {
		d := gate.Check(context.Background(), httptest.NewRequest("GET", p, nil), enums.RoleProvider, "p1", "tok")
		if d.Action != ActionPass || !d.FailOpen {
			t.Fatalf("%s: expected fail-open pass, got %+v", p, d)
		}
	}
	if rec.reasons["business"] != 2 {
		t.Fatalf("expected two skipped records for business, got %v", rec.reasons)
	}
}

func TestGateIgnoresOtherRolesAndNamespaces(t *testing.T) {
	gate, _ := newTestGate(Profile{}, nil)
	status := gate.status.(*stubStatus)

	d := gate.Check(context.Background(), httptest.NewRequest("GET", "/customer", nil), enums.RoleCustomer, "c1", "tok")
	if d.Action != ActionPass {
		t.Fatalf("expected pass for customer, got %+v", d)
	}
	d = gate.Check(context.Background(), httptest.NewRequest("GET", "/about", nil), enums.RoleProvider, "p1", "tok")
	if d.Action != ActionPass {
		t.Fatalf("expected pass outside provider namespace, got %+v", d)
	}
	if status.calls != 0 {
		t.Fatalf("status should not be fetched, got %d calls", status.calls)
	}
}

func newTestGate(p Profile, err error) (*Gate, *skipCounter) {
	rec := &skipCounter{reasons: map[string]int{}}
	status := &stubStatus{profile: p, err: err}
	return NewGate(routing.NewClassifier(routing.DefaultTable()), status, nil, rec), rec
}

type stubStatus struct {
	profile Profile
	err     error
	calls   int
}

func (s *stubStatus) Status(ctx context.Context, userID, token string) (*Status, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return newStatus(s.profile), nil
}

func (s *stubStatus) Invalidate(ctx context.Context, userID string) error { return nil }

type skipCounter struct {
	reasons map[string]int
}

func (s *skipCounter) IncSkipped(reason string) {
	s.reasons[reason]++
}
