package onboarding

import (
	"context"
	"net/http"
	"net/url"

	"github.com/angelmondragon/servicehub-gateway/internal/routing"
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

const stepParam = "step"

// Action is what the gate wants done with a request.
type Action string

const (
	ActionPass     Action = "pass"
	ActionRedirect Action = "redirect"
)

// Decision is the outcome of Gate.Check.
type Decision struct {
	Action   Action
	Location string
	// FailOpen marks a pass caused by a collaborator failure rather than completeness.
	FailOpen bool
	NextStep enums.OnboardingStep
}

func pass() Decision { return Decision{Action: ActionPass} }

type skipRecorder interface {
	IncSkipped(reason string)
}

// Gate keeps providers on the onboarding flow until their profile is complete.
type Gate struct {
	classifier *routing.Classifier
	status     Service
	logg       *logger.Logger
	metrics    skipRecorder
}

func NewGate(classifier *routing.Classifier, status Service, logg *logger.Logger, metrics skipRecorder) *Gate {
	return &Gate{classifier: classifier, status: status, logg: logg, metrics: metrics}
}

// Check evaluates r for a signed-in user. Collaborator failures always pass.
func (g *Gate) Check(ctx context.Context, r *http.Request, role enums.Role, userID, token string) Decision {
	if role != enums.RoleProvider {
		return pass()
	}
	reqPath := r.URL.Path
	providerNS := g.classifier.Table().Namespaces[enums.RoleProvider]
	if g.classifier.NamespaceOf(reqPath) != providerNS {
		return pass()
	}

	st, err := g.status.Status(ctx, userID, token)
	if err != nil {
		collaborator := CollaboratorOf(err)
		if g.logg != nil {
			logCtx := g.logg.WithField(g.logg.WithCollaborator(ctx, collaborator), "error", err.Error())
			g.logg.Warn(logCtx, "onboarding.gate.fail_open")
		}
		if g.metrics != nil {
			g.metrics.IncSkipped(collaborator)
		}
		return Decision{Action: ActionPass, FailOpen: true}
	}

	onOnboarding := g.classifier.IsOnboardingRoute(reqPath)
	if st.Complete {
		if onOnboarding {
			return Decision{Action: ActionRedirect, Location: g.classifier.ProviderDashboard()}
		}
		return pass()
	}

	if onOnboarding {
		if step, err := enums.ParseOnboardingStep(r.URL.Query().Get(stepParam)); err == nil && step == st.NextStep {
			return Decision{Action: ActionPass, NextStep: st.NextStep}
		}
	}
	return Decision{
		Action:   ActionRedirect,
		Location: OnboardingLocation(g.classifier.OnboardingPath(), st.NextStep),
		NextStep: st.NextStep,
	}
}

// OnboardingLocation builds the onboarding URL for step.
func OnboardingLocation(base string, step enums.OnboardingStep) string {
	q := url.Values{}
	q.Set(stepParam, string(step))
	return base + "?" + q.Encode()
}
