// Package cli builds the cobra command tree. Commands parse flags into
// requests and delegate to the injected reviewer; all wiring lives in
// the host process.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// RunRequest carries the run command's flags.
type RunRequest struct {
	// DryRun stops the pipeline before submission and logs the batch
	// that would have been posted.
	DryRun bool
}

// LocalRequest carries the local command's flags.
type LocalRequest struct {
	BaseRef    string
	TargetRef  string
	Dir        string
	ReportPath string
}

// Reviewer executes the two review modes.
type Reviewer interface {
	// Run reviews the pull request that triggered the current CI run.
	Run(ctx context.Context, req RunRequest) error

	// Local reviews the diff between two refs of a local repository.
	Local(ctx context.Context, req LocalRequest) error
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Reviewer Reviewer
	Args     Arguments
	Version  string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "diffsentry",
		Short: "AI code review for pull requests",
		Long: "diffsentry asks Gemini to review a pull request's diff and posts the\n" +
			"comments that land on changed lines back as one grouped review.",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(runCommand(deps.Reviewer))
	root.AddCommand(localCommand(deps.Reviewer))
	root.AddCommand(versionCommand(versionString))

	return root
}

func runCommand(reviewer Reviewer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Review the pull request that triggered this CI run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewer.Run(cmd.Context(), RunRequest{DryRun: dryRun})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the review instead of submitting it")

	return cmd
}

func localCommand(reviewer Reviewer) *cobra.Command {
	var baseRef string
	var targetRef string
	var dir string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Review the diff between two refs of a local repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reviewer.Local(cmd.Context(), LocalRequest{
				BaseRef:    baseRef,
				TargetRef:  targetRef,
				Dir:        dir,
				ReportPath: reportPath,
			})
		},
	}

	cmd.Flags().StringVar(&baseRef, "base", "main", "Base reference to diff against")
	cmd.Flags().StringVar(&targetRef, "target", "HEAD", "Target reference to review")
	cmd.Flags().StringVar(&dir, "dir", ".", "Repository directory")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a markdown report to this path")

	return cmd
}

func versionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the diffsentry version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
