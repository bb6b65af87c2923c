package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/assistant/internal/platform"
	"github.com/aretw0/assistant/pkg/client"
)

var (
	sendThread string
	searchJSON bool
)

var syncCmd = &cobra.Command{
	Use:       "sync [threads|projects|digest|all]",
	Short:     "Refresh server-owned collections",
	Long:      `Sync fetches threads, projects or the daily digest and replaces the matching collections in the state. Defaults to all.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"threads", "projects", "digest", "all"},
	Run: func(cmd *cobra.Command, args []string) {
		what := "all"
		if len(args) == 1 {
			what = args[0]
		}

		ctx := cmd.Context()
		inst := openInstance(ctx, false)
		defer inst.Close()

		for _, step := range syncSteps(what) {
			n, err := step.run(ctx, inst)
			if err != nil {
				fatal("Error syncing "+step.name, err)
			}
			fmt.Printf("%s: %d\n", step.name, n)
		}
	},
}

type syncStep struct {
	name string
	run  func(context.Context, *platform.Instance) (int, error)
}

func syncSteps(what string) []syncStep {
	all := []syncStep{
		{"threads", func(ctx context.Context, i *platform.Instance) (int, error) {
			threads, err := i.Gateway.SyncThreads(ctx)
			return len(threads), err
		}},
		{"projects", func(ctx context.Context, i *platform.Instance) (int, error) {
			projects, err := i.Gateway.SyncProjects(ctx)
			return len(projects), err
		}},
		{"digest", func(ctx context.Context, i *platform.Instance) (int, error) {
			d, err := i.Gateway.SyncDigest(ctx)
			return len(d.Meetings) + len(d.Emails), err
		}},
	}
	if what == "all" {
		return all
	}
	for _, s := range all {
		if s.name == what {
			return []syncStep{s}
		}
	}
	return nil
}

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send a chat message",
	Long:  `Send posts a message to --thread, or starts a new thread when --thread is empty.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		inst := openInstance(ctx, false)
		defer inst.Close()

		resp, err := inst.Gateway.Send(ctx, sendThread, strings.Join(args, " "))
		if err != nil {
			fatal("Error sending message", err)
		}
		fmt.Printf("[%s] %s\n", resp.ThreadID, resp.Reply)
		for _, c := range resp.Citations {
			fmt.Printf("  - %s (%s)\n", c.Title, c.Source)
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		inst := openInstance(ctx, true)
		defer inst.Close()

		resp, err := inst.Gateway.Search(ctx, strings.Join(args, " "), nil)
		if err != nil {
			fatal("Error searching", err)
		}
		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(resp); err != nil {
				fatal("Error encoding output", err)
			}
			return
		}
		for _, r := range resp.Results {
			fmt.Printf("%.2f  %s  (%s)\n", r.Score, r.Title, r.Source)
		}
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload files and track them in the state",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		files := make([]client.LocalFile, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fatal("Error reading file", err)
			}
			files = append(files, client.LocalFile{
				Name:    filepath.Base(path),
				Type:    mime.TypeByExtension(filepath.Ext(path)),
				Content: data,
			})
		}

		ctx := cmd.Context()
		inst := openInstance(ctx, false)
		defer inst.Close()

		res, err := inst.Gateway.Upload(ctx, files...)
		if err != nil {
			fatal("Error uploading", err)
		}
		fmt.Printf("run %s: %d file(s) saved\n", res.RunID, res.FilesSaved)
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendThread, "thread", "", "Thread id (empty starts a new thread)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")

	rootCmd.AddCommand(syncCmd, sendCmd, searchCmd, uploadCmd)
}
