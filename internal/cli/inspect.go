package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"geocam.dev/geocam"
	"geocam.dev/geocam/raster"
	"geocam.dev/geocam/seal"
	"geocam.dev/geocam/stego"
)

// inspect decodes what is embedded in an image without judging it: the
// signature package, the declared scheme and generation, and the metadata
// record. Useful when a verify fails and you want to see what is actually
// in the pixels.
func newInspectCmd() *cobra.Command {
	var inPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dump the embedded signature package and metadata without verifying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			imageBytes, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}
			r, err := raster.Decode(imageBytes)
			if err != nil {
				return err
			}
			r = raster.RotateToPortrait(r)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dimensions:  %dx%d\n", r.Width, r.Height)
			fmt.Fprintf(out, "capacity:    %d metadata units, %d signature units\n",
				stego.MetadataCapacity(r), stego.SignatureCapacity(r))

			pkg, err := stego.ExtractSignaturePackage(r)
			if err != nil {
				fmt.Fprintf(out, "signature:   none (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "version:     %s\n", pkg.Version)
			fmt.Fprintf(out, "timestamp:   %s\n", pkg.Timestamp)
			fmt.Fprintf(out, "public key:  %s\n", base64.StdEncoding.EncodeToString(pkg.PublicKey))
			fmt.Fprintf(out, "fingerprint: %s\n", geocam.Fingerprint(pkg.PublicKey))
			fmt.Fprintf(out, "signature:   %s\n", base64.StdEncoding.EncodeToString(pkg.Signature))

			gen := geocam.CurrentGeneration
			if g, _, err := geocam.ParseVersion(pkg.Version); err == nil {
				gen = g
			} else {
				fmt.Fprintf(out, "version tag: unparseable (%v)\n", err)
			}

			seal.ResetSignatureRow(r)
			rec, warning := stego.ExtractMetadata(r, gen)
			if warning != "" {
				fmt.Fprintf(out, "metadata:    %s\n", warning)
			}
			return printMetadata(out, rec)
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "image path")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func printMetadata(out io.Writer, rec geocam.MetadataRecord) error {
	if len(rec) == 0 {
		fmt.Fprintln(out, "metadata:    (empty)")
		return nil
	}
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "metadata:")
	for _, name := range names {
		value, err := json.Marshal(rec[name])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-12s %s\n", name+":", value)
	}
	return nil
}
