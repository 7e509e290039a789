package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"geocam.dev/geocam/cidutil"
)

func newCIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cid <file>...",
		Short: "Print the content identifier of one or more image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", cidutil.ImageCID(data), path)
			}
			return nil
		},
	}
	return cmd
}
