package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/presentation/tui"
	redisAdapter "github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/snapshot"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage autosaved workspaces",
	Long:  `Lists, inspects and removes workspace snapshots persisted by the autosave store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored workspaces",
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore(cmd)
		names, err := store.List(context.Background())
		if err != nil {
			fmt.Printf("List failed: %v\n", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Println("No stored workspaces.")
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <workspace>",
	Short: "Print a summary of a stored workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore(cmd)
		snap, err := store.Load(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Inspect failed: %v\n", err)
			os.Exit(1)
		}
		tree, models, err := snapshot.Restore(snap)
		if err != nil {
			fmt.Printf("Snapshot is unreadable: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(tui.Summarize(tree, models))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <workspace>",
	Short: "Remove a stored workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := sessionStore(cmd)
		if err := store.Delete(context.Background(), args[0]); err != nil {
			fmt.Printf("Remove failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed workspace %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
	sessionCmd.PersistentFlags().String("redis", "localhost:6379", "Redis address of the autosave store")
}

func sessionStore(cmd *cobra.Command) ports.WorkspaceStore {
	addr, _ := cmd.Flags().GetString("redis")
	return redisAdapter.New(addr, "", 0)
}
