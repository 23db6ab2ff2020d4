package main

import (
	"fmt"
	"io"
	"logmerge/internal/di"
	"logmerge/internal/models"
	"logmerge/internal/structures"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	rootCmd := &cobra.Command{
		Use:           "logmerge",
		Short:         "Reconcile duplicated chat-room session log snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "log debug output to stderr")

	reconcileCmd := &cobra.Command{
		Use:   "reconcile [directory...]",
		Short: "Pair v4/v5 snapshots, write merged logs and the comparison reports",
		Long: "Directories given as arguments replace input.directories from the config. " +
			"Relative directories are resolved against input.baseDir.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Directories = args
			return runReconcile(cmd.OutOrStdout(), flags)
		},
	}

	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Summarise the manifest of the last reconcile run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runManifest(cmd.OutOrStdout(), flags)
		},
	}

	rootCmd.AddCommand(reconcileCmd, manifestCmd)
	return rootCmd
}

func runReconcile(out io.Writer, flags *structures.CliFlags) error {
	app, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	defer app.Close()

	manifest, err := app.Run()
	if err != nil {
		return err
	}
	printSummary(out, manifest)
	return nil
}

func runManifest(out io.Writer, flags *structures.CliFlags) error {
	app, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	defer app.Close()

	manifest, err := app.LastManifest()
	if err != nil {
		return err
	}
	if manifest == nil {
		fmt.Fprintln(out, "No manifest found; run `logmerge reconcile` first.")
		return nil
	}
	printSummary(out, manifest)
	return nil
}

func printSummary(out io.Writer, manifest *models.RunManifest) {
	s := manifest.Summary()
	fmt.Fprintf(out, "Run %s (%s, %s)\n", manifest.RunID,
		manifest.StartedAt.Format(models.ReportTimestampLayout),
		manifest.FinishedAt.Sub(manifest.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(out, "Directories: %d  log4: %d  log5: %d\n", s.Directories, s.V4Files, s.V5Files)

	divergences := make([]string, 0, len(s.ByDivergence))
	for d := range s.ByDivergence {
		divergences = append(divergences, string(d))
	}
	sort.Strings(divergences)
	for _, d := range divergences {
		fmt.Fprintf(out, "  %-10s %d\n", d, s.ByDivergence[models.Divergence(d)])
	}
	fmt.Fprintf(out, "Selected v4: %d  v5: %d\n", s.BySource[models.SourceV4], s.BySource[models.SourceV5])
	fmt.Fprintf(out, "Log4 without log5: %d\n", s.MissingV5)
	if s.Overflow > 0 {
		fmt.Fprintf(out, "Unresolved extra log5: %d\n", s.Overflow)
	}
}
