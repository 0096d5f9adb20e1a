package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/layout"
)

var arrangeCmd = &cobra.Command{
	Use:   "arrange <file>",
	Short: "Recompute node positions for a document",
	Long:  `Runs the deterministic layout over the document and prints the computed positions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orientationFlag, _ := cmd.Flags().GetString("orientation")
		if err := runArrange(cmd, args[0], orientationFlag); err != nil {
			fmt.Printf("Arrange failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(arrangeCmd)
	arrangeCmd.Flags().StringP("orientation", "o", "HORIZONTAL", "Layout orientation (HORIZONTAL or VERTICAL)")
}

func runArrange(cmd *cobra.Command, path, orientationFlag string) error {
	orientation, err := layout.ParseOrientation(orientationFlag)
	if err != nil {
		return err
	}

	_, sess, err := loadDocument(cmd, path)
	if err != nil {
		return err
	}

	sess.SetOrientation(orientation)
	sess.AutoArrange()

	tree, _ := sess.Document()
	for _, id := range tree.Nodes() {
		node, _ := tree.Get(id)
		fmt.Printf("%-20s (%.0f, %.0f)\n", node.Type, node.Position.X, node.Position.Y)
	}
	return nil
}
