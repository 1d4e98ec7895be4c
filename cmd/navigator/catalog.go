package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/unemployment-navigator/internal/catalog"
	"github.com/jonathan/unemployment-navigator/internal/conversation"
	"github.com/jonathan/unemployment-navigator/internal/eligibility"
	"github.com/jonathan/unemployment-navigator/internal/linkcheck"
	"github.com/jonathan/unemployment-navigator/internal/observability"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and check the question, plan and resource catalogs",
}

var (
	catalogDir       string
	checkBrowser     bool
	checkConcurrency int
	checkTimeout     time.Duration
	checkShowAll     bool
	resourceCategory string
	resourcesAll     bool
)

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate catalog documents and cross references",
	Long:  "Loads the catalogs (embedded, or from --dir), validates them against their JSON Schemas and checks that every entry the interview and planner rely on exists. Dangling resource references are reported as warnings.",
	RunE:  runCatalogValidate,
}

var catalogCheckLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Check that every resource URL is reachable",
	RunE:  runCatalogCheckLinks,
}

var catalogResourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List referral resources",
	RunE:  runCatalogResources,
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogDir, "dir", "", "Catalog directory (defaults to the config, then the embedded catalog)")
	catalogCheckLinksCmd.Flags().BoolVar(&checkBrowser, "browser", false, "Render pages with headless Chrome when the fetched HTML is too thin")
	catalogCheckLinksCmd.Flags().IntVar(&checkConcurrency, "concurrency", 4, "Number of resources checked in parallel")
	catalogCheckLinksCmd.Flags().DurationVar(&checkTimeout, "timeout", linkcheck.DefaultTimeout, "Per-request timeout")
	catalogCheckLinksCmd.Flags().BoolVar(&checkShowAll, "all", false, "List every result, not only failures")

	catalogResourcesCmd.Flags().StringVar(&resourceCategory, "category", "", "Only list resources of this category (benefits, job_search, healthcare, legal, training, disability, other)")
	catalogResourcesCmd.Flags().BoolVar(&resourcesAll, "all", false, "List every resource instead of the first few")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogResourcesCmd)
	catalogCmd.AddCommand(catalogCheckLinksCmd)
	rootCmd.AddCommand(catalogCmd)
}

func selectedCatalog() (*catalog.Catalog, error) {
	if catalogDir != "" {
		cat, err := catalog.LoadDir(catalogDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", catalogDir, err)
		}
		return cat, nil
	}
	return loadCatalog(cfg)
}

func runCatalogValidate(cmd *cobra.Command, _ []string) error {
	cat, err := selectedCatalog()
	if err != nil {
		return err
	}
	if err := cat.Require(conversation.Requirements()); err != nil {
		return err
	}

	warnings := cat.Lint(eligibility.Categories())
	lines := []string{
		fmt.Sprintf("Questions:  %d", len(cat.QuestionIDs())),
		fmt.Sprintf("Templates:  %d", len(cat.Categories())),
		fmt.Sprintf("Resources:  %d", len(cat.ResourceIDs())),
		fmt.Sprintf("Warnings:   %d", len(warnings)),
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintSummary("CATALOG OK", lines...)
	for _, w := range warnings {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
	}
	return nil
}

func runCatalogCheckLinks(cmd *cobra.Command, _ []string) error {
	if checkConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", checkConcurrency)
	}
	cat, err := selectedCatalog()
	if err != nil {
		return err
	}

	opts := []linkcheck.Option{
		linkcheck.WithConcurrency(checkConcurrency),
		linkcheck.WithHTTPClient(&http.Client{Timeout: checkTimeout}),
	}
	if checkBrowser {
		renderer := linkcheck.NewChromeRenderer()
		renderer.Timeout = 2 * checkTimeout
		opts = append(opts, linkcheck.WithRenderer(renderer))
	}
	checker := linkcheck.New(opts...)

	resources := cat.Resources()
	results, err := checker.Check(cmd.Context(), resources)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := linkcheck.Failed(results)
	shown := failed
	if checkShowAll {
		shown = results
	}
	for _, r := range shown {
		status := "ok"
		if !r.OK {
			status = "FAIL " + r.Error
		}
		fmt.Fprintf(out, "%-24s %-4d %s %s\n", r.ResourceID, r.StatusCode, r.URL, status)
	}

	observability.NewPrinter(out).PrintSummary("LINK CHECK",
		fmt.Sprintf("Checked:  %d", len(results)),
		fmt.Sprintf("Failed:   %d", len(failed)),
	)
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d resource links failed", len(failed), len(results))
	}
	return nil
}

func runCatalogResources(cmd *cobra.Command, _ []string) error {
	cat, err := selectedCatalog()
	if err != nil {
		return err
	}

	resources := cat.Resources()
	title := "RESOURCES"
	if resourceCategory != "" {
		filtered := resources[:0]
		for _, r := range resources {
			if string(r.Category) == resourceCategory {
				filtered = append(filtered, r)
			}
		}
		resources = filtered
		title = "RESOURCES · " + strings.ToUpper(resourceCategory)
	}
	if len(resources) == 0 {
		return fmt.Errorf("no resources in category %q", resourceCategory)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintResources(title, resources, resourcesAll)
	return nil
}
