package interview

import "github.com/jonathan/unemployment-navigator/internal/types"

// Apply records an answer given at step into a copy of profile. Answers are
// stored verbatim; values outside the known enumerations are kept as typed.
// The caller's AdditionalInfo map is never modified.
func Apply(step types.Step, response string, profile types.UserProfile) types.UserProfile {
	out := profile.Clone()
	switch step {
	case types.StepEmploymentStatus:
		out.EmploymentStatus = types.EmploymentStatus(response)
	case types.StepTimeline:
		out.Timeline = types.Timeline(response)
	case types.StepSeparationReason:
		out.SeparationReason = types.SeparationReason(response)
	case types.StepFollowUp:
		out.AdditionalInfo[types.AdditionalInfoKey(out.SeparationReason)] = response
	}
	return out
}
