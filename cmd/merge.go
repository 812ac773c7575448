package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uf2/internal/config"
	"github.com/deploymenttheory/go-uf2/internal/inspect"
	"github.com/deploymenttheory/go-uf2/internal/services"
	"github.com/deploymenttheory/go-uf2/internal/types"
)

var (
	mergeOut       string
	mergeChunkSize int
	mergeSaveImage bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <base.uf2> <address> <image.img>",
	Short: "Merge a binary (littlefs) image into a firmware container",
	Long: `Chunk the image file into UF2 blocks at the given flash address and
append them to the firmware container. Pass "auto" as the address to use
the embedded-drive start reported by picotool (RP2040 firmware only).
The image-only container is written next to the image with a .uf2 suffix
unless --no-save-image is given.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var addr uint32
		if args[1] != "auto" {
			v, err := strconv.ParseUint(args[1], 0, 32)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[1], err)
			}
			addr = uint32(v)
		}

		image, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}

		svc := &services.MergeService{
			Families:  loadFamilies(cfg),
			Inspector: &inspect.Picotool{Path: cfg.PicotoolPath},
			ChunkSize: mergeChunkSize,
		}
		result, err := svc.MergeFile(args[0], image, addr)
		if err != nil {
			return err
		}

		if mergeSaveImage {
			vfsPath := strings.TrimSuffix(args[2], ".img") + ".uf2"
			if err := result.Image.WriteFile(vfsPath); err != nil {
				return err
			}
			log.Infof("wrote %d blocks to %s", result.Image.Len(), vfsPath)
		}

		out := mergeOut
		if out == "" {
			out = cfg.OutputPath
		}
		if err := result.Merged.WriteFile(out); err != nil {
			return err
		}
		log.Infof("wrote %d blocks to %s", result.Merged.Len(), out)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "output file path (default from config)")
	mergeCmd.Flags().IntVar(&mergeChunkSize, "chunk-size", types.DataSize, "image chunk size in bytes (1-476)")
	mergeCmd.Flags().BoolVar(&mergeSaveImage, "save-image", true, "also write the image-only .uf2")
	rootCmd.AddCommand(mergeCmd)
}
