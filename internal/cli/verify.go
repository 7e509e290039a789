package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"geocam.dev/geocam/seal"
)

func newVerifyCmd() *cobra.Command {
	var (
		inPath       string
		asJSON       bool
		requireValid bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a sealed image and print its metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			imageBytes, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}
			res, err := seal.Verify(imageBytes)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "valid:       %t\n", res.SignatureValid)
				fmt.Fprintf(out, "message:     %s\n", res.Message)
				fmt.Fprintf(out, "scheme:      %s (generation %d)\n", res.Scheme, res.Generation)
				fmt.Fprintf(out, "fingerprint: %s\n", res.PublicKeyFingerprint)
				fmt.Fprintf(out, "signed at:   %s\n", res.SignedAt)
				fmt.Fprintf(out, "cid:         %s\n", res.ImageCID)
				if len(res.Warnings) > 0 {
					fmt.Fprintf(out, "warnings:    %s\n", strings.Join(res.Warnings, "; "))
				}
				if err := printMetadata(out, res.Metadata); err != nil {
					return err
				}
			}

			if requireValid && !res.SignatureValid {
				return fmt.Errorf("signature invalid")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "sealed image path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&requireValid, "require-valid", false, "exit non-zero when the signature is invalid")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
