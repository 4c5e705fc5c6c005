package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/explorer/internal/app"
	"github.com/five82/explorer/internal/present"
)

func newFetchCmd(global *globalFlags) *cobra.Command {
	var (
		rover  string
		sol    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one fetch cycle and print the result",
		Long: `Runs a single fetch cycle against the NASA APIs and prints what each
section would show. The command exits non-zero when the cycle recorded an
error; per-section failures are reported but do not fail the command.`,
		Example: `  explorer fetch
  explorer fetch --rover spirit --sol 42 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("sol") && sol < 1 {
				return fmt.Errorf("sol must be >= 1, got %d", sol)
			}

			opts := global.options(app.ModeFetch)
			opts.Rover = rover
			opts.Sol = sol
			opts.LogWriter = cmd.ErrOrStderr()

			a, err := app.New(opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			report := a.FetchOnce(cmd.Context())
			snap := a.Store().Snapshot()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(snap.View()); err != nil {
					return fmt.Errorf("encode snapshot: %w", err)
				}
			} else {
				printSummary(out, present.Build(snap, a.ArchiveURL))
			}

			if report.Err != nil {
				return fmt.Errorf("fetch cycle %d: %w", report.Cycle, report.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rover, "rover", "", "rover: curiosity, opportunity, spirit, perseverance")
	cmd.Flags().IntVar(&sol, "sol", 0, "martian sol (>= 1)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}

// printSummary writes a plain-text rendition of page.
func printSummary(w io.Writer, page present.Page) {
	fmt.Fprintf(w, "Rover: %s  Sol: %d  Cycle: %d\n", page.RoverLabel, page.Sol, page.Cycle)
	if page.Error != "" {
		fmt.Fprintf(w, "%s\n%s\n", page.Error, present.ErrorHint)
	}

	for _, sec := range page.Sections {
		fmt.Fprintln(w)
		heading := sec.Title
		if sec.Subtitle != "" {
			heading += " · " + sec.Subtitle
		}
		fmt.Fprintf(w, "%s [%s]\n", heading, sec.State)

		switch sec.State {
		case present.StateData:
			for _, line := range sectionLines(page, sec.Key) {
				fmt.Fprintf(w, "  %s\n", line)
			}
		case present.StateEmpty:
			if sec.Failure != "" {
				fmt.Fprintf(w, "  %s (%s)\n", sec.Empty, sec.Failure)
			} else {
				fmt.Fprintf(w, "  %s\n", sec.Empty)
			}
		}
	}
}

func sectionLines(page present.Page, key string) []string {
	var lines []string
	switch key {
	case "apod":
		if a := page.APOD; a != nil {
			lines = append(lines, strings.TrimSpace(a.Title+" ("+a.Date+")"))
			if a.Copyright != "" {
				lines = append(lines, "© "+a.Copyright)
			}
			if a.IsImage {
				lines = append(lines, a.URL)
			} else {
				lines = append(lines, "Video: "+a.URL)
			}
		}
	case "mars":
		for _, p := range page.Photos {
			lines = append(lines, fmt.Sprintf("%s · %s · %s", p.Camera, p.EarthDate, p.URL))
		}
	case "asteroids":
		for _, a := range page.Asteroids {
			lines = append(lines, fmt.Sprintf("%s · hazardous: %s · %s · %s · miss %s",
				a.Name, present.Hazard(a.Hazardous), a.Diameter, a.Velocity, a.MissDistance))
		}
	case "earth":
		for _, e := range page.Earth {
			lines = append(lines, fmt.Sprintf("%s · %s", e.Taken, e.URL))
		}
	}
	return lines
}
