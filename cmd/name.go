package cmd

import (
	"fmt"
	"strconv"

	"github.com/encodeous/routegen/core"
	"github.com/spf13/cobra"
)

func newNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "name <slot> <port>",
		Short:   "Print the interface name of a hardware slot and port",
		Args:    cobra.ExactArgs(2),
		GroupID: "util",
		RunE: func(cmd *cobra.Command, args []string) error {
			nums := make([]int, 0, 2)
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 0 {
					return fmt.Errorf("%q is not a valid slot or port number", arg)
				}
				nums = append(nums, n)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), core.InterfaceName(nums[0], nums[1]))
			return err
		},
	}
}
