package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpAdapter "github.com/aretw0/arbor/pkg/adapters/mcp"
	"github.com/aretw0/arbor/pkg/registry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP tool server on stdio",
	Long:  `Exposes validate_tree, format_tree, arrange_tree and export_mermaid as MCP tools for agent integrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		reg := registry.New()
		if palette, _ := cmd.Flags().GetString("palette"); palette != "" {
			if err := reg.LoadPalette(palette); err != nil {
				fmt.Printf("Error loading palette: %v\n", err)
				os.Exit(1)
			}
		}

		server := mcpAdapter.NewServer(reg)
		if err := server.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
