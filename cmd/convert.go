package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-uf2/internal/config"
	"github.com/deploymenttheory/go-uf2/internal/container"
	"github.com/deploymenttheory/go-uf2/internal/services"
	"github.com/deploymenttheory/go-uf2/internal/types"
)

var (
	convertOut       string
	convertBase      string
	convertFamily    string
	convertChunkSize int
)

var convertCmd = &cobra.Command{
	Use:   "convert <firmware.bin|firmware.hex|firmware.uf2>",
	Short: "Convert firmware between BIN/HEX and UF2",
	Long: `Convert a raw binary or Intel HEX firmware into a UF2 container, or
dump an existing UF2 container back to Intel HEX. The direction follows
the input file extension: .hex and .bin inputs produce .uf2, a .uf2
input produces .hex. Raw binaries are placed at --base; HEX segments
carry their own addresses.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		families := loadFamilies(cfg)

		var familyID uint32
		if convertFamily != "" {
			id, ok := families.ID(convertFamily)
			if !ok {
				return fmt.Errorf("unknown family %q", convertFamily)
			}
			familyID = id
		}

		in := args[0]
		ext := strings.ToLower(filepath.Ext(in))

		if ext == ".uf2" {
			c := container.New(families)
			if err := c.ReadFile(in); err != nil {
				return err
			}
			out := outputPath(in, ".hex")
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := services.DumpIntelHex(c, f); err != nil {
				return err
			}
			log.Infof("wrote %s", out)
			return nil
		}

		var c *container.Container
		switch ext {
		case ".hex":
			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("opening %s: %w", in, err)
			}
			defer f.Close()
			c, err = services.ConvertIntelHex(f, convertChunkSize, familyID)
			if err != nil {
				return err
			}
		default:
			blob, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("reading %s: %w", in, err)
			}
			base, err := strconv.ParseUint(convertBase, 0, 32)
			if err != nil {
				return fmt.Errorf("invalid base address %q: %w", convertBase, err)
			}
			c, err = services.ConvertBinary(blob, uint32(base), convertChunkSize, familyID)
			if err != nil {
				return err
			}
		}

		out := outputPath(in, ".uf2")
		if err := c.WriteFile(out); err != nil {
			return err
		}
		log.Infof("wrote %d blocks to %s", c.Len(), out)
		return nil
	},
}

// outputPath returns the --out flag value, or the input path with its
// extension swapped.
func outputPath(in, ext string) string {
	if convertOut != "" {
		return convertOut
	}
	if i := strings.LastIndex(in, "."); i >= 0 {
		return in[:i] + ext
	}
	return in + ext
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file path (default input with swapped extension)")
	convertCmd.Flags().StringVar(&convertBase, "base", "0x2000", "flash address for raw binary input")
	convertCmd.Flags().StringVar(&convertFamily, "family", "", "family name to tag blocks with (e.g. RP2040)")
	convertCmd.Flags().IntVar(&convertChunkSize, "chunk-size", types.DataSize, "chunk size in bytes (1-476)")
	rootCmd.AddCommand(convertCmd)
}
