package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/unemployment-navigator/internal/eligibility"
	"github.com/jonathan/unemployment-navigator/internal/observability"
	"github.com/jonathan/unemployment-navigator/internal/planner"
	"github.com/jonathan/unemployment-navigator/internal/rendering"
	"github.com/jonathan/unemployment-navigator/internal/types"
)

// Output formats for plan.
const (
	formatBox      = "box"
	formatMarkdown = "markdown"
	formatText     = "text"
	formatJSON     = "json"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Classify a situation and print its action plan",
	Long:  "Builds a profile from flags, classifies it and prints the personalized action plan without running the interview.",
	RunE:  runPlan,
}

var (
	planStatus     string
	planReason     string
	planTimeline   string
	planDetail     string
	planMassLayoff bool
	planFormat     string
)

func init() {
	planCmd.Flags().StringVar(&planStatus, "status", string(types.StatusUnemployed), "Employment status (unemployed, underemployed, expecting_loss, never_employed)")
	planCmd.Flags().StringVar(&planReason, "reason", "", "Separation reason (layoff, fired, quit, health, contract_end, company_closed)")
	planCmd.Flags().StringVar(&planTimeline, "timeline", "", "How long ago the job ended (recent, weeks, months, long_term)")
	planCmd.Flags().StringVar(&planDetail, "detail", "", "Follow-up answer for the separation reason (e.g. permanent, misconduct, harassment)")
	planCmd.Flags().BoolVar(&planMassLayoff, "mass-layoff", false, "The job loss was part of a mass layoff")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", formatBox, "Output format: box, markdown, text or json")
	rootCmd.AddCommand(planCmd)
}

// profileFromFlags builds the profile the interview would have produced.
func profileFromFlags() (types.UserProfile, error) {
	if strings.TrimSpace(planStatus) == "" {
		return types.UserProfile{}, fmt.Errorf("--status must not be empty")
	}
	profile := types.NewUserProfile()
	profile.EmploymentStatus = types.EmploymentStatus(planStatus)
	profile.SeparationReason = types.SeparationReason(planReason)
	profile.Timeline = types.Timeline(planTimeline)
	if planDetail != "" {
		profile.AdditionalInfo[types.AdditionalInfoKey(profile.SeparationReason)] = planDetail
	}
	if planMassLayoff {
		profile.AdditionalInfo[types.InfoMassLayoff] = "true"
	}
	return profile, nil
}

func runPlan(cmd *cobra.Command, _ []string) error {
	switch planFormat {
	case formatBox, formatMarkdown, formatText, formatJSON:
	default:
		return fmt.Errorf("unsupported format %q (use box, markdown, text or json)", planFormat)
	}

	profile, err := profileFromFlags()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	category := eligibility.Classify(profile)
	profile.EligibilityCategory = category
	plan, err := planner.NewEngine(cat).Assemble(category, profile)
	if err != nil {
		return fmt.Errorf("failed to assemble action plan: %w", err)
	}
	observability.Logger().Debug("plan assembled", "category", category, "plan_id", plan.ID)

	out := cmd.OutOrStdout()
	switch planFormat {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Profile types.UserProfile `json:"user_profile"`
			Plan    *types.ActionPlan `json:"action_plan"`
		}{profile, plan})
	case formatMarkdown, formatText:
		format := rendering.FormatMarkdown
		if planFormat == formatText {
			format = rendering.FormatText
		}
		rendered, err := rendering.Render(plan, format)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	default:
		printer := observability.NewPrinter(out)
		printer.PrintProfile(profile)
		printer.PrintActionPlan(plan)
		return nil
	}
}
