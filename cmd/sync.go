package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tieubaoca/inkwell/service"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull new PDFs from a Google Drive folder and process them",
	Long: `Sync downloads PDFs from the configured Drive folder that are not yet
present in the raw directory and runs the new files through the extraction
pipeline. Already-mirrored files are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if folder, _ := cmd.Flags().GetString("folder"); folder != "" {
			cfg.DriveFolder = folder
		}
		logger := newLogger()
		defer logger.Sync()

		pipeline, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}
		drive, err := service.NewDriveService(cmd.Context(), cfg.DriveCredentials, pipeline, logger)
		if err != nil {
			return err
		}

		paths, err := drive.Sync(cmd.Context(), cfg.DriveFolder, cfg.RawDir)
		if err != nil {
			return err
		}
		logger.Infow("done", "notes", len(paths))
		for _, path := range paths {
			cmd.Println(path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().String("folder", "", "Drive folder to sync from")
}
