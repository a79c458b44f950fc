package onboarding

import "github.com/angelmondragon/servicehub-gateway/pkg/enums"

// Profile holds the three completeness signals for a provider.
type Profile struct {
	HasAddress  bool `json:"hasAddress"`
	HasBusiness bool `json:"hasBusiness"`
	HasSlots    bool `json:"hasSlots"`
}

// StepStatus is one entry of the stepper view of a Profile.
type StepStatus struct {
	Step     enums.OnboardingStep `json:"step"`
	Complete bool                 `json:"complete"`
}

// NextStep returns the first incomplete step in enums.OnboardingSteps order.
// ok is false once every step is complete.
func (p Profile) NextStep() (step enums.OnboardingStep, ok bool) {
	for _, s := range p.Steps() {
		if !s.Complete {
			return s.Step, true
		}
	}
	return "", false
}

func (p Profile) Complete() bool {
	_, pending := p.NextStep()
	return !pending
}

// Steps lists every step in enums.OnboardingSteps order with its completion.
func (p Profile) Steps() []StepStatus {
	done := map[enums.OnboardingStep]bool{
		enums.OnboardingStepAddress:  p.HasAddress,
		enums.OnboardingStepBusiness: p.HasBusiness,
		enums.OnboardingStepSlots:    p.HasSlots,
	}
	steps := make([]StepStatus, 0, len(enums.OnboardingSteps))
	for _, step := range enums.OnboardingSteps {
		steps = append(steps, StepStatus{Step: step, Complete: done[step]})
	}
	return steps
}
