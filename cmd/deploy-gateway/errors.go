package main

import (
	"strconv"
	"strings"

	"github.com/NethermindEth/deploy-gateway/rpc"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func ErrorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "Print how gateway error codes are reported to clients",
		Long: `This command prints every gateway error code with the kind and JSON-RPC code it is reported as.
Message overrides are tried in order before the code mapping.`,
		Args: cobra.NoArgs,
		RunE: printErrors,
	}
}

func printErrors(cmd *cobra.Command, _ []string) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Gateway code", "Kind", "RPC code", "Message overrides"})
	table.SetAutoWrapText(false)

	for _, mapping := range rpc.SequencerErrorMappings() {
		overrides := make([]string, 0, len(mapping.Overrides))
		for _, override := range mapping.Overrides {
			overrides = append(overrides, strconv.Quote(override.Substring)+" => "+override.Kind.String())
		}
		table.Append([]string{
			mapping.Code.String(),
			mapping.Kind.String(),
			strconv.Itoa(mapping.Kind.RPCError().Code),
			strings.Join(overrides, ", "),
		})
	}

	table.Render()
	return nil
}
