package osinfo

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDetectCmd returns the command printing the host's OS code.
func NewDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Print the operating system code of this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := Detect()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
}
