// Package types provides type definitions for structured data used throughout the unemployment navigator.
//
//nolint:revive // types is a standard Go package name pattern
package types

// EmploymentStatus describes the person's current relationship to work.
// Values outside the known set are kept verbatim (free-typed answers).
type EmploymentStatus string

// Known employment statuses.
const (
	StatusUnemployed    EmploymentStatus = "unemployed"
	StatusUnderemployed EmploymentStatus = "underemployed"
	StatusExpectingLoss EmploymentStatus = "expecting_loss"
	StatusNeverEmployed EmploymentStatus = "never_employed"
)

// SeparationReason describes how the last job ended.
type SeparationReason string

// Known separation reasons.
const (
	ReasonLayoff        SeparationReason = "layoff"
	ReasonFired         SeparationReason = "fired"
	ReasonQuit          SeparationReason = "quit"
	ReasonHealth        SeparationReason = "health"
	ReasonContractEnd   SeparationReason = "contract_end"
	ReasonCompanyClosed SeparationReason = "company_closed"
)

// Timeline describes how long ago the job loss happened.
type Timeline string

// Known timelines.
const (
	TimelineRecent   Timeline = "recent"
	TimelineWeeks    Timeline = "weeks"
	TimelineMonths   Timeline = "months"
	TimelineLongTerm Timeline = "long_term"
)

// Additional info keys, one per separation reason.
const (
	InfoTerminationReason = "terminationReason"
	InfoQuitReason        = "quitReason"
	InfoLayoffType        = "layoffType"
	InfoHealthCondition   = "healthCondition"
	InfoAdditionalDetails = "additionalDetails"
	InfoMassLayoff        = "massLayoff"
)

// UserProfile accumulates the answers given during the interview.
type UserProfile struct {
	EmploymentStatus    EmploymentStatus  `json:"employment_status"`
	SeparationReason    SeparationReason  `json:"separation_reason,omitempty"`
	Timeline            Timeline          `json:"timeline,omitempty"`
	AdditionalInfo      map[string]string `json:"additional_info"`
	EligibilityCategory Category          `json:"eligibility_category,omitempty"`
}

// NewUserProfile returns the profile every session starts with.
func NewUserProfile() UserProfile {
	return UserProfile{
		EmploymentStatus: StatusUnemployed,
		AdditionalInfo:   map[string]string{},
	}
}

// Clone returns a copy that shares no map with p.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.AdditionalInfo = make(map[string]string, len(p.AdditionalInfo))
	for k, v := range p.AdditionalInfo {
		out.AdditionalInfo[k] = v
	}
	return out
}

// AdditionalInfoKey returns the key under which a follow-up answer is stored
// for the given separation reason.
func AdditionalInfoKey(reason SeparationReason) string {
	switch reason {
	case ReasonFired:
		return InfoTerminationReason
	case ReasonQuit:
		return InfoQuitReason
	case ReasonLayoff:
		return InfoLayoffType
	case ReasonHealth:
		return InfoHealthCondition
	default:
		return InfoAdditionalDetails
	}
}
