package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export a document as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGraph(cmd, args[0]); err != nil {
			fmt.Printf("Graph export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, path string) error {
	_, sess, err := loadDocument(cmd, path)
	if err != nil {
		return err
	}
	tree, _ := sess.Document()
	fmt.Print(graph.GenerateMermaid(tree))
	return nil
}
