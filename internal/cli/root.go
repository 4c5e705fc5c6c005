package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/explorer/internal/app"
)

// errNoTerminal is returned when the TUI is started without a terminal.
var errNoTerminal = errors.New("the interactive view needs a terminal; use 'explorer fetch' or 'explorer serve'")

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	prefsPath  string
	apiKey     string
	logLevel   string
}

func (g *globalFlags) options(mode app.Mode) app.Options {
	return app.Options{
		Mode:       mode,
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		APIKey:     g.apiKey,
		LogLevel:   g.logLevel,
	}
}

// NewRootCmd creates the root command. Without a subcommand it runs the
// terminal UI; fetch and serve run without one.
func NewRootCmd(ver string) *cobra.Command {
	return newRootCmd(ver, isTerminal)
}

func newRootCmd(ver string, tty func(*os.File) bool) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "explorer",
		Short:         "Browse NASA open data from the terminal",
		Long:          "explorer shows the Astronomy Picture of the Day, Mars rover photos, near-Earth asteroids, and Earth images from DSCOVR EPIC.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !tty(os.Stdout) {
				return errNoTerminal
			}
			a, err := app.New(flags.options(app.ModeTUI))
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return a.RunTUI(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file path (default ~/.config/explorer/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default ~/.config/explorer/prefs.toml)")
	pf.StringVar(&flags.apiKey, "api-key", "", "NASA API key (overrides config and environment)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newFetchCmd(&flags), newServeCmd(&flags), newVersionCmd(ver))
	return cmd
}

const rootCmdExample = `  # Browse interactively
  explorer

  # Print one fetch cycle for Perseverance at sol 200
  explorer fetch --rover perseverance --sol 200

  # Same, as JSON
  explorer fetch --rover perseverance --sol 200 --json

  # Serve the web page and JSON API
  explorer serve --listen 127.0.0.1:8080`
