package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/tui"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a styled summary of a document",
	Long:  `Decodes the document and renders a markdown summary (validity, node counts, declared models) in the terminal.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runShow(cmd, args[0]); err != nil {
			fmt.Printf("Show failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, path string) error {
	_, sess, err := loadDocument(cmd, path)
	if err != nil {
		return err
	}
	tree, models := sess.Document()

	render := tui.NewRenderer()
	out, err := render(tui.Summarize(tree, models))
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	fmt.Print(out)
	return nil
}
