package enums

import "fmt"

// OnboardingStep names a prerequisite profile section a provider completes before using the dashboard.
type OnboardingStep string

const (
	OnboardingStepAddress  OnboardingStep = "address"
	OnboardingStepBusiness OnboardingStep = "business"
	OnboardingStepSlots    OnboardingStep = "slots"
)

// OnboardingSteps is the fixed completion order.
var OnboardingSteps = []OnboardingStep{
	OnboardingStepAddress,
	OnboardingStepBusiness,
	OnboardingStepSlots,
}

func (s OnboardingStep) String() string {
	return string(s)
}

func (s OnboardingStep) IsValid() bool {
	for _, candidate := range OnboardingSteps {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseOnboardingStep(value string) (OnboardingStep, error) {
	for _, candidate := range OnboardingSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid onboarding step %q", value)
}
