package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zen-systems/loomgate/pkg/agent"
	"github.com/zen-systems/loomgate/pkg/audit"
	"github.com/zen-systems/loomgate/pkg/contract"
	"github.com/zen-systems/loomgate/pkg/gate"
	"github.com/zen-systems/loomgate/pkg/pipeline"
)

var manifestFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "loomgate",
		Short: "Deterministic staged content pipeline with quality gates",
		Long: `Loomgate runs a fixed set of content agents in dependency order,
	validates each artifact against its contract, applies cross-artifact
	quality gates between stages and leaves an append-only audit trail.`,
	}

	rootCmd.PersistentFlags().StringVarP(&manifestFile, "file", "f", "pipeline.yaml", "path to pipeline manifest")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(checksCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var inputFile string
	var inputJSON string
	var auditDir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the pipeline against an initial artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := loadInput(inputFile, inputJSON)
			if err != nil {
				return err
			}

			p, err := bindManifest()
			if err != nil {
				return err
			}

			runID := pipeline.NewRunID()
			trail, err := audit.NewWriter(auditDir, runID)
			if err != nil {
				return err
			}

			runner, err := pipeline.NewRunner(p, builtinContracts(), trail)
			if err != nil {
				return err
			}

			result, err := runner.Run(context.Background(), initial, pipeline.RunOptions{
				RunID:   runID,
				Verbose: verbose,
				Logger:  log.Printf,
			})
			if err != nil {
				return err
			}

			printSummary(result)
			fmt.Printf("audit: %s\n", trail.RunDir())
			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "path to a JSON file with the initial artifact")
	cmd.Flags().StringVar(&inputJSON, "input-json", "", "inline JSON for the initial artifact")
	cmd.Flags().StringVar(&auditDir, "audit-dir", ".loomgate/runs", "base directory for audit output")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "mirror audit events to the log")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the pipeline manifest and print the execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := bindManifest()
			if err != nil {
				return err
			}
			order, err := p.Schedule()
			if err != nil {
				return err
			}

			ids := make([]string, len(order))
			for i, stage := range order {
				ids[i] = stage.ID
			}
			fmt.Printf("pipeline %s: %d stages\n", p.Name, len(order))
			fmt.Printf("order: %s\n", strings.Join(ids, " -> "))
			return nil
		},
	}
}

func checksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List available agents, gate checks and contracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tNAME")
			for _, name := range agent.Builtin().Names() {
				fmt.Fprintf(w, "agent\t%s\n", name)
			}
			for _, name := range builtinGates().Names() {
				fmt.Fprintf(w, "gate\t%s\n", name)
			}
			for _, name := range builtinContracts().Contracts() {
				fmt.Fprintf(w, "contract\t%s\n", name)
			}
			return w.Flush()
		},
	}
}

func bindManifest() (*pipeline.Pipeline, error) {
	manifest, err := pipeline.LoadManifest(manifestFile)
	if err != nil {
		return nil, err
	}
	return manifest.Bind(agent.Builtin().Lookup, builtinGates().Lookup)
}

func loadInput(inputFile, inputJSON string) (any, error) {
	var data []byte
	switch {
	case inputFile != "" && inputJSON != "":
		return nil, fmt.Errorf("use either --input or --input-json, not both")
	case inputFile != "":
		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, err
		}
		data = raw
	case inputJSON != "":
		data = []byte(inputJSON)
	default:
		return nil, fmt.Errorf("an initial artifact is required (--input or --input-json)")
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parse initial artifact: %w", err)
	}
	return value, nil
}

// builtinGates wires the generic checks to the stage ids the built-in
// agents conventionally use.
func builtinGates() *gate.Registry {
	reg := gate.NewRegistry()
	register := func(name string, check gate.Check) {
		if err := reg.Register(name, check); err != nil {
			panic(err)
		}
	}
	register("draft-content", gate.ContentNotEmpty("draft-content", "draft"))
	register("draft-length", gate.MaxContentLength("draft-length", "draft", 20000))
	register("title-carried", gate.FieldsMatch("title-carried", "outline", "title", "draft", "title"))
	register("outline-present", gate.RequireArtifacts("outline-present", "outline"))
	return reg
}

func builtinContracts() *contract.Registry {
	reg := contract.NewRegistry()
	register := func(id string, rules ...contract.Rule) {
		if err := reg.Register(id, rules...); err != nil {
			panic(err)
		}
	}
	register("brief.v1", contract.RequireKeys("topic"), contract.StringKey("topic"))
	register("outline.v1", contract.RequireKeys("title", "sections"), contract.StringKey("title"))
	register("document.v1", contract.StringKey("title"), contract.StringKey("content"))
	register("content.nonempty", contract.NonEmptyString())
	return reg
}

func printSummary(result *pipeline.RunResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tSTATUS\tDURATION\tOUTPUT")
	for _, sa := range result.Audit.Stages {
		status := "ok"
		detail := shortHash(sa.OutputHash)
		if !sa.Success {
			status = "failed"
			detail = strings.Join(sa.Errors, "; ")
		}
		fmt.Fprintf(w, "%s\t%s\t%dms\t%s\n", sa.ID, status, sa.DurationMillis, detail)
	}
	w.Flush()

	fmt.Printf("run %s: %s (quality: %s)\n", result.RunID, result.Audit.OverallStatus, result.GateStatus)
	if !result.Success {
		fmt.Printf("failed at %s: %s\n", result.FailedAt, strings.Join(result.Errors, "; "))
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
