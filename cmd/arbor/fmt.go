package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Re-encode a document into its canonical form",
	Long:  `Decodes the XML document and re-encodes it with canonical element order, attribute order and indentation.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		write, _ := cmd.Flags().GetBool("write")
		if err := runFmt(cmd, args[0], write); err != nil {
			fmt.Printf("Format failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolP("write", "w", false, "Write the result back to the file instead of stdout")
}

func runFmt(cmd *cobra.Command, path string, write bool) error {
	editor, sess, err := loadDocument(cmd, path)
	if err != nil {
		return err
	}

	if write {
		return editor.SaveFile(path)
	}
	text, err := sess.EncodeXML()
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
