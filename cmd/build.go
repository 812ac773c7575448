package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uf2/internal/builder"
	"github.com/deploymenttheory/go-uf2/internal/config"
	"github.com/deploymenttheory/go-uf2/internal/inspect"
	"github.com/deploymenttheory/go-uf2/internal/registry"
	"github.com/deploymenttheory/go-uf2/internal/services"
)

var (
	buildPort     string
	buildSource   string
	buildFirmware string
	buildDir      string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a littlefs image from a folder and merge it into firmware",
	Long: `Look up the board's filesystem geometry, pack the source folder into
a littlefs image with mklittlefs, and merge the image into the firmware
container at the board's embedded-drive address. Writes littlefs.img,
littlefs.uf2 and firmware_lfs.uf2 into the build directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		pipeline := &services.Pipeline{
			Boards:    registry.DefaultBoards(),
			Families:  loadFamilies(cfg),
			Builder:   &builder.Mklittlefs{Path: cfg.MklittlefsPath},
			Inspector: &inspect.Picotool{Path: cfg.PicotoolPath},
			ChunkSize: cfg.ChunkSize,
		}
		return pipeline.Run(services.PipelineRequest{
			SourceDir:    buildSource,
			FirmwarePath: buildFirmware,
			Port:         buildPort,
			BuildDir:     buildDir,
		})
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildPort, "port", "p", "auto", "MicroPython port[-board] (rp2-pico, esp32-generic)")
	buildCmd.Flags().StringVarP(&buildSource, "source", "s", "./src", "source folder to pack into the filesystem")
	buildCmd.Flags().StringVarP(&buildFirmware, "firmware", "f", "", "firmware container path")
	buildCmd.Flags().StringVarP(&buildDir, "build", "B", "./build", "build output folder")
	buildCmd.MarkFlagRequired("firmware")
	rootCmd.AddCommand(buildCmd)
}
