package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carltonupp/upperdine/internal/smoke"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Smoke check a running site",
	Long:  "Requests every page and API route of a running site and verifies the content agrees: posts newest first, every post reachable, skills ordered and shaded.",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var checkCfg smoke.Config

func init() {
	checkCmd.Flags().StringVar(&checkCfg.BaseURL, "base-url", "http://localhost:8080", "Base URL of the site to check")
	checkCmd.Flags().IntVar(&checkCfg.Workers, "workers", smoke.DefaultWorkers, "Concurrent per-post requests")
	checkCmd.Flags().DurationVar(&checkCfg.Timeout, "timeout", smoke.DefaultTimeout, "HTTP request timeout")
	checkCmd.Flags().IntVar(&checkCfg.SocialLinks, "social-links", smoke.DefaultSocialLinks, "Expected number of social links on the home page")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, log, err := setup(ctx, os.Stderr)
	if err != nil {
		return err
	}

	report, runErr := smoke.Run(ctx, checkCfg, log.Named("smoke"))

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECK\tRESULT\tTOOK")
	for _, r := range report.Results {
		result := "ok"
		if !r.Passed() {
			result = r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, result, r.Duration.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return runErr
}
