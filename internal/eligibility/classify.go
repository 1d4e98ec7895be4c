// Package eligibility maps a completed interview profile to the eligibility
// category that selects an action plan template.
package eligibility

import "github.com/jonathan/unemployment-navigator/internal/types"

// Termination and quit details that change the outcome.
const (
	TerminationMisconduct = "misconduct"

	QuitUnsafeConditions = "unsafe_conditions"
	QuitHarassment       = "harassment"
	QuitHealthReasons    = "health_reasons"
	QuitFamilyEmergency  = "family_emergency"
)

var goodCauseQuitReasons = map[string]bool{
	QuitUnsafeConditions: true,
	QuitHarassment:       true,
	QuitHealthReasons:    true,
	QuitFamilyEmergency:  true,
}

// GoodCause reports whether a quit reason qualifies as good cause attributable
// to the employer or an urgent personal circumstance.
func GoodCause(quitReason string) bool {
	return goodCauseQuitReasons[quitReason]
}

// Classify returns the category for profile. Rules are evaluated in order and
// the first match wins; every profile maps to exactly one category.
func Classify(profile types.UserProfile) types.Category {
	switch profile.EmploymentStatus {
	case types.StatusNeverEmployed:
		return types.CategoryFirstTimeSeeker
	case types.StatusUnderemployed:
		return types.CategoryUnderemployedBenefits
	case types.StatusExpectingLoss:
		return types.CategoryPreparingForUnemployment
	case types.StatusUnemployed:
		return classifySeparation(profile)
	default:
		return types.CategoryGeneralPath
	}
}

func classifySeparation(profile types.UserProfile) types.Category {
	switch profile.SeparationReason {
	case types.ReasonLayoff, types.ReasonCompanyClosed:
		return types.CategoryLayoffEligible
	case types.ReasonFired:
		if profile.AdditionalInfo[types.InfoTerminationReason] == TerminationMisconduct {
			return types.CategoryMisconductTermination
		}
		return types.CategoryFiredPerformance
	case types.ReasonQuit:
		if GoodCause(profile.AdditionalInfo[types.InfoQuitReason]) {
			return types.CategoryQuitGoodCause
		}
		return types.CategoryVoluntaryQuitNoBenefits
	case types.ReasonHealth:
		return types.CategoryHealthDisability
	case types.ReasonContractEnd:
		return types.CategoryContractEndEligible
	default:
		return types.CategoryGeneralUnemployment
	}
}

// Categories lists every category Classify can return.
func Categories() []types.Category {
	return []types.Category{
		types.CategoryFirstTimeSeeker,
		types.CategoryUnderemployedBenefits,
		types.CategoryPreparingForUnemployment,
		types.CategoryLayoffEligible,
		types.CategoryMisconductTermination,
		types.CategoryFiredPerformance,
		types.CategoryQuitGoodCause,
		types.CategoryVoluntaryQuitNoBenefits,
		types.CategoryHealthDisability,
		types.CategoryContractEndEligible,
		types.CategoryGeneralUnemployment,
		types.CategoryGeneralPath,
	}
}
