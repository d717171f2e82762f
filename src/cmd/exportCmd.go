package cmd

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simivar/sprite-picker/src/app"
)

var exportArchive bool

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "also bundle exported sprites into <output>.tar.xz")
}

var exportCmd = &cobra.Command{
	Use:   "export <base>",
	Short: "Exports every sprite of a sprite sheet as a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := args[0]
		log.Info().
			Str("base", base).
			Str("output", OutputPath).
			Msg("Sprite Picker export running")

		sprites := newLoader().Load(commandContext(cmd), base)
		if _, err := app.ExportSprites(sprites, OutputPath); err != nil {
			log.Error().Err(err).Msg("Can not export sprites")
			return err
		}

		if exportArchive {
			archivePath := archivePathFor(OutputPath)
			if err := app.ArchiveSprites(sprites, archivePath); err != nil {
				log.Error().Err(err).Str("archive", archivePath).Msg("Can not archive sprites")
				return err
			}
			log.Info().Str("archive", archivePath).Msg("Sprites archived")
		}

		log.Info().Msg("Sprite Picker export finished")
		return nil
	},
}

func archivePathFor(outputDir string) string {
	return filepath.Clean(outputDir) + ".tar.xz"
}
