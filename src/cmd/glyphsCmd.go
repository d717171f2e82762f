package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simivar/sprite-picker/src/app"
)

func init() {
	rootCmd.AddCommand(glyphsCmd)
}

var glyphsCmd = &cobra.Command{
	Use:   "glyphs <urlTemplate>",
	Short: "Lists the font stacks behind a glyphs URL template",
	Long: `Lists the font stacks behind a glyphs URL template such as
			https://tiles.example/fonts/{fontstack}/{range}.pbf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := app.FetchGlyphNames(commandContext(cmd), app.DefaultOpener(Timeout), args[0])
		for _, name := range names {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		log.Debug().Int("fontstacks", len(names)).Msg("Sprite Picker glyphs finished")
		return nil
	},
}
