package types

// Category is the eligibility category selected by the classifier. It keys
// the action plan template catalog.
type Category string

// Eligibility categories.
const (
	CategoryFirstTimeSeeker          Category = "first_time_seeker"
	CategoryUnderemployedBenefits    Category = "underemployed_benefits"
	CategoryPreparingForUnemployment Category = "preparing_for_unemployment"
	CategoryLayoffEligible           Category = "layoff_eligible"
	CategoryMisconductTermination    Category = "misconduct_termination"
	CategoryFiredPerformance         Category = "fired_performance"
	CategoryQuitGoodCause            Category = "quit_good_cause"
	CategoryVoluntaryQuitNoBenefits  Category = "voluntary_quit_no_benefits"
	CategoryHealthDisability         Category = "health_disability"
	CategoryContractEndEligible      Category = "contract_end_eligible"
	CategoryGeneralUnemployment      Category = "general_unemployment"
	CategoryGeneralPath              Category = "general_path"
)

// Priority is the band an action item belongs to.
type Priority string

// Priority bands.
const (
	PriorityImmediate Priority = "immediate"
	PriorityShortTerm Priority = "short_term"
	PriorityOngoing   Priority = "ongoing"
)

// ResourceCategory groups resources by kind of help.
type ResourceCategory string

// Resource categories.
const (
	ResourceBenefits   ResourceCategory = "benefits"
	ResourceJobSearch  ResourceCategory = "job_search"
	ResourceHealthcare ResourceCategory = "healthcare"
	ResourceLegal      ResourceCategory = "legal"
	ResourceTraining   ResourceCategory = "training"
	ResourceDisability ResourceCategory = "disability"
	ResourceOther      ResourceCategory = "other"
)

// ResourceLink is a referral resource. Immutable reference data.
type ResourceLink struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	URL         string           `json:"url"`
	Phone       string           `json:"phone,omitempty"`
	Description string           `json:"description"`
	Category    ResourceCategory `json:"category"`
}

// ActionItem is one step of an action plan.
type ActionItem struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Priority     Priority       `json:"priority"`
	TimeEstimate string         `json:"time_estimate"`
	Resources    []ResourceLink `json:"resources"`
	Completed    bool           `json:"completed"`
}

// ActionPlan is the hydrated, personalized result of an interview.
type ActionPlan struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	EligibilityCategory Category       `json:"eligibility_category"`
	ImmediateActions    []ActionItem   `json:"immediate_actions"`
	ShortTermActions    []ActionItem   `json:"short_term_actions"`
	OngoingActions      []ActionItem   `json:"ongoing_actions"`
	HiddenResources     []ResourceLink `json:"hidden_resources"`
}

// Bands returns the three priority bands in display order. The returned
// slices alias the plan's own storage.
func (p *ActionPlan) Bands() [][]ActionItem {
	return [][]ActionItem{p.ImmediateActions, p.ShortTermActions, p.OngoingActions}
}

// FindItem returns a pointer to the action item with the given ID, searching
// all bands, or nil if there is none.
func (p *ActionPlan) FindItem(id string) *ActionItem {
	if p == nil {
		return nil
	}
	for _, band := range p.Bands() {
		for i := range band {
			if band[i].ID == id {
				return &band[i]
			}
		}
	}
	return nil
}

// Progress returns the number of completed items and the total item count.
func (p *ActionPlan) Progress() (completed, total int) {
	if p == nil {
		return 0, 0
	}
	for _, band := range p.Bands() {
		for _, item := range band {
			total++
			if item.Completed {
				completed++
			}
		}
	}
	return completed, total
}

// Clone returns a deep copy of the plan.
func (p *ActionPlan) Clone() *ActionPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.ImmediateActions = cloneItems(p.ImmediateActions)
	out.ShortTermActions = cloneItems(p.ShortTermActions)
	out.OngoingActions = cloneItems(p.OngoingActions)
	out.HiddenResources = cloneSlice(p.HiddenResources)
	return &out
}

func cloneItems(items []ActionItem) []ActionItem {
	if items == nil {
		return nil
	}
	out := make([]ActionItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Resources = cloneSlice(item.Resources)
	}
	return out
}

// cloneSlice copies s, keeping nil and empty distinct so that copies
// serialize the same way as the original.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// ActionItemTemplate is an action item whose resources are referenced by ID.
type ActionItemTemplate struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Priority     Priority `json:"priority"`
	TimeEstimate string   `json:"time_estimate"`
	Resources    []string `json:"resources"`
}

// PlanTemplate is an unhydrated action plan stored in the template catalog.
type PlanTemplate struct {
	ID                  string               `json:"id"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	EligibilityCategory Category             `json:"eligibility_category"`
	ImmediateActions    []ActionItemTemplate `json:"immediate_actions"`
	ShortTermActions    []ActionItemTemplate `json:"short_term_actions"`
	OngoingActions      []ActionItemTemplate `json:"ongoing_actions"`
	HiddenResources     []string             `json:"hidden_resources,omitempty"`
}
