package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simivar/sprite-picker/src/app"
)

var listJSON bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "print sprite records as JSON")
}

var listCmd = &cobra.Command{
	Use:   "list <base>",
	Short: "Lists the sprites of a sprite sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := args[0]
		log.Debug().Str("base", base).Msg("Sprite Picker list running")

		sprites := newLoader().Load(commandContext(cmd), base)

		var err error
		if listJSON {
			err = writeJSON(cmd.OutOrStdout(), sprites)
		} else {
			err = writeTable(cmd.OutOrStdout(), sprites)
		}
		if err != nil {
			return err
		}

		log.Debug().Int("sprites", len(sprites)).Msg("Sprite Picker list finished")
		return nil
	},
}

func writeJSON(w io.Writer, sprites []app.SpriteRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sprites)
}

func writeTable(w io.Writer, sprites []app.SpriteRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range sprites {
		kind := "name-only"
		if s.HasImage() {
			kind = "image"
		}
		sdf := ""
		if s.SDF {
			sdf = "sdf"
		}
		fmt.Fprintf(tw, "%s\t%dx%d\t%s\t%s\n", s.ID, s.Width, s.Height, kind, sdf)
	}
	return tw.Flush()
}
