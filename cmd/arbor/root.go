package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor is a behavior tree document engine",
	Long:  `Arbor edits, validates, arranges and persists behavior tree definitions stored as XML.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("palette", "", "Path to a YAML palette of extra node types")
}

// newEditor builds an Editor honoring the global flags.
func newEditor(cmd *cobra.Command, opts ...arbor.Option) (*arbor.Editor, error) {
	palette, _ := cmd.Flags().GetString("palette")
	if palette != "" {
		opts = append(opts, arbor.WithPalette(palette))
	}
	return arbor.New(opts...)
}

// loadDocument builds an editor and loads the given file into it.
func loadDocument(cmd *cobra.Command, path string, opts ...arbor.Option) (*arbor.Editor, *session.Session, error) {
	editor, err := newEditor(cmd, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init engine: %w", err)
	}
	if err := editor.LoadFile(path); err != nil {
		return nil, nil, err
	}
	return editor, editor.Session(), nil
}
