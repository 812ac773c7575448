package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uf2/internal/config"
	"github.com/deploymenttheory/go-uf2/internal/inspect"
	"github.com/deploymenttheory/go-uf2/internal/services"
	"github.com/deploymenttheory/go-uf2/internal/types"
)

var infoBlocks bool

var infoCmd = &cobra.Command{
	Use:   "info <file.uf2>",
	Short: "Show the structure of a UF2 container",
	Long: `Load a UF2 container and print its block count, detected device
families, contiguous address ranges and littlefs superblock locations.
For RP2040 firmware the embedded-drive metadata reported by picotool is
included when the tool is available.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		svc := &services.MergeService{
			Families:  loadFamilies(cfg),
			Inspector: &inspect.Picotool{Path: cfg.PicotoolPath},
		}
		base, err := svc.LoadBase(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("UF2 file: %s\n", args[0])
		fmt.Print(base)

		if infoBlocks {
			for i := 0; i < base.Len(); i++ {
				b := base.Block(i)
				fmt.Printf("Block %d: addr=0x%08X payload=%d flags=%b\n",
					i, b.TargetAddr, b.PayloadSize, b.Flags)
				for _, name := range b.FlagNames() {
					if b.Flags&types.FlagFamilyIDPresent != 0 && name == "Family ID present" {
						fmt.Printf(" - %s: 0x%08X\n", name, b.Reserved)
					} else {
						fmt.Printf(" - %s\n", name)
					}
				}
			}
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoBlocks, "blocks", false, "also print per-block details")
	rootCmd.AddCommand(infoCmd)
}
