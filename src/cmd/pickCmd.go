package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simivar/sprite-picker/src/field"
)

var (
	pickValue    string
	pickOptions  []string
	pickDisabled bool
	pickLabel    string
)

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().StringVar(&pickValue, "value", "", "initial value")
	pickCmd.Flags().StringArrayVar(&pickOptions, "option", nil, "autocomplete option used when the sheet has no sprites (repeatable)")
	pickCmd.Flags().BoolVar(&pickDisabled, "disabled", false, "show the value without allowing edits")
	pickCmd.Flags().StringVar(&pickLabel, "label", "", "label rendered before the input")
}

var pickCmd = &cobra.Command{
	Use:   "pick [base]",
	Short: "Interactively picks a sprite name and prints it",
	Long: `Opens a sprite picker on the terminal. The chosen value is printed to
			stdout, so it can be captured with $(spritepick pick <base>).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		restore, err := redirectLogs(LogFile)
		if err != nil {
			return err
		}
		defer restore()

		base := ""
		if len(args) == 1 {
			base = args[0]
		}

		// The UI draws on stderr; stdout only carries the result.
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stderr).ColorProfile())
		p := tea.NewProgram(
			newPickModel(base),
			tea.WithAltScreen(),
			tea.WithOutput(os.Stderr),
			tea.WithContext(commandContext(cmd)),
		)
		final, err := p.Run()
		if err != nil {
			log.Error().Err(err).Msg("Sprite picker failed")
			return err
		}
		return printPicked(cmd.OutOrStdout(), final)
	},
}

func newPickModel(base string) field.Model {
	return field.New(field.Options{
		Value:           pickValue,
		FallbackOptions: pickOptions,
		Disabled:        pickDisabled,
		AriaLabel:       pickLabel,
		Loader:          newLoader(),
		BaseURL:         base,
	})
}

// printPicked writes the settled value; nothing is printed when it was cleared.
func printPicked(w io.Writer, final tea.Model) error {
	m, ok := final.(field.Model)
	if !ok {
		return fmt.Errorf("unexpected picker model %T", final)
	}
	v, set := m.Value()
	if !set {
		log.Debug().Msg("Sprite picker finished without a value")
		return nil
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

// redirectLogs sends logs to path, or discards them, while the picker owns the
// terminal. The returned func restores the previous logger.
func redirectLogs(path string) (func(), error) {
	prev := log.Logger
	restore := func() { log.Logger = prev }

	var out io.Writer = io.Discard
	closeFile := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %q: %w", path, err)
		}
		out = f
		closeFile = func() { _ = f.Close() }
	}

	if humanLogs() {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	}
	log.Logger = log.Output(out)
	return func() {
		restore()
		closeFile()
	}, nil
}
