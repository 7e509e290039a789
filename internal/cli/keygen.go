package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"geocam.dev/geocam/keys"
)

func newKeygenCmd() *cobra.Command {
	var (
		scheme    string
		dir       string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "keygen <name>",
		Short: "Generate a device keypair and store it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := keys.CheckKeyName(name); err != nil {
				return err
			}
			store, err := keys.NewStore(dir)
			if err != nil {
				return err
			}
			kp, err := keys.Generate(scheme)
			if err != nil {
				return err
			}
			if err := store.Save(name, kp, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "name:        %s\n", name)
			fmt.Fprintf(cmd.OutOrStdout(), "scheme:      %s\n", kp.SchemeName)
			fmt.Fprintf(cmd.OutOrStdout(), "fingerprint: %s\n", kp.Fingerprint())
			return nil
		},
	}
	cmd.Flags().StringVar(&scheme, "scheme", "secp256k1", "signing scheme (secp256k1, ed25519, p256)")
	cmd.Flags().StringVar(&dir, "dir", "", "keystore directory (default ~/.geocam/keys)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing key of the same name")
	return cmd
}

func newKeysListCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List locally stored device keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := keys.NewStore(dir)
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no keys stored")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-10s %s\n", e.Name, e.SchemeName, e.Fingerprint)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "keystore directory (default ~/.geocam/keys)")
	return cmd
}
