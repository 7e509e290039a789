package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"geocam.dev/geocam"
	"geocam.dev/geocam/keys"
	"geocam.dev/geocam/session"
)

func newSignCmd(logger func() zerolog.Logger) *cobra.Command {
	var (
		inPath      string
		outPath     string
		keyName     string
		keyFile     string
		dir         string
		metaJSON    string
		metaFile    string
		orientation int
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Embed metadata and a signature into an image",
		Long: `sign runs the full two-phase flow locally: the image is prepared and
hashed, the stored key signs the digest, and the signature package is
embedded into the last pixel row. Output is always PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger()

			kp, err := loadKeyPair(keyName, keyFile, dir)
			if err != nil {
				return err
			}
			rec, err := loadMetadata(metaJSON, metaFile)
			if err != nil {
				return err
			}
			imageBytes, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}

			store := session.NewMemoryStore(0)
			defer store.Close()
			mgr := session.NewManager(store, 0, log)

			begun, err := mgr.Begin(cmd.Context(), &session.BeginRequest{
				Image:           imageBytes,
				Metadata:        rec,
				PublicKey:       kp.Public,
				SchemeName:      kp.SchemeName,
				EXIFOrientation: orientation,
			})
			if err != nil {
				return err
			}

			digest, err := hex.DecodeString(begun.HashToSign)
			if err != nil {
				return err
			}
			sig, err := kp.SignDigest(digest)
			if err != nil {
				return err
			}

			done, err := mgr.Complete(cmd.Context(), begun.SessionID, sig)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, done.ImageBytes, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote:       %s\n", outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "scheme:      %s\n", kp.SchemeName)
			fmt.Fprintf(cmd.OutOrStdout(), "fingerprint: %s\n", kp.Fingerprint())
			fmt.Fprintf(cmd.OutOrStdout(), "cid:         %s\n", done.ImageCID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "input image (PNG or JPEG)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output PNG path")
	cmd.Flags().StringVarP(&keyName, "key", "k", "", "stored key name")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "key file path (alternative to --key)")
	cmd.Flags().StringVar(&dir, "dir", "", "keystore directory (default ~/.geocam/keys)")
	cmd.Flags().StringVarP(&metaJSON, "meta", "m", "", "metadata record as a JSON object")
	cmd.Flags().StringVar(&metaFile, "meta-file", "", "metadata record from a JSON file")
	cmd.Flags().IntVar(&orientation, "orientation", 0, "EXIF orientation tag of the input (0 = upright)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func loadKeyPair(keyName, keyFile, dir string) (*keys.KeyPair, error) {
	switch {
	case keyFile != "":
		return keys.LoadFile(keyFile)
	case keyName != "":
		store, err := keys.NewStore(dir)
		if err != nil {
			return nil, err
		}
		return store.Load(keyName)
	default:
		return nil, fmt.Errorf("one of --key or --key-file is required")
	}
}

func loadMetadata(metaJSON, metaFile string) (geocam.MetadataRecord, error) {
	var raw []byte
	switch {
	case metaFile != "":
		data, err := os.ReadFile(metaFile)
		if err != nil {
			return nil, err
		}
		raw = data
	case metaJSON != "":
		raw = []byte(metaJSON)
	default:
		return geocam.MetadataRecord{}, nil
	}
	var rec geocam.MetadataRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("metadata is not a JSON object: %w", err)
	}
	return rec, nil
}
