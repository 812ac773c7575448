package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uf2/internal/config"
	"github.com/deploymenttheory/go-uf2/internal/interfaces"
	"github.com/deploymenttheory/go-uf2/internal/registry"
)

var (
	// Global output flags only
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "go-uf2",
	Short: "UF2 firmware container inspector and merger",
	Long: `go-uf2 works with UF2 block-oriented firmware containers for
microcontroller boards: it inspects their structure, merges pre-built
littlefs filesystem images into them, converts raw binaries and Intel
HEX firmware to UF2, and assembles complete flashable images from a
source folder.

Commands:
  info        Show block count, families, ranges and littlefs superblocks
  merge       Merge a binary (littlefs) image into a firmware container
  convert     Convert BIN/HEX firmware to UF2 or a container back to HEX
  build       Build a littlefs image from a folder and merge it`,
	Version: "0.1.0-dev",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbose:
			log.SetLevel(log.DebugLevel)
		case quiet:
			log.SetLevel(log.ErrorLevel)
		default:
			log.SetLevel(log.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
}

// loadFamilies builds the family registry, merging the configured extra
// definitions file when present.
func loadFamilies(cfg *config.Config) interfaces.FamilyRegistry {
	families := registry.DefaultFamilies()
	if cfg.FamiliesFile != "" {
		if err := families.LoadFile(cfg.FamiliesFile); err != nil {
			log.Warnf("ignoring families file: %v", err)
		}
	}
	return families
}
