package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	adapter "github.com/aretw0/assistant/pkg/adapters/lifecycle"
	"github.com/aretw0/assistant/pkg/store"
)

var (
	initForce   bool
	showYAML    bool
	applyDryRun bool
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and change the persisted state",
}

var stateInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the product seed as the state snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		inst := openInstance(ctx, false)
		defer inst.Close()

		if inst.File.Exists() && !initForce {
			fatal("Error initializing state", fmt.Errorf("%s already exists (use --force)", inst.File.Path))
		}
		inst.Store.Dispatch(store.LoadState{Snapshot: cfg.ProductSeed().InitialState().Snapshot()})
		if err := inst.Save(ctx); err != nil {
			fatal("Error saving state", err)
		}
		fmt.Printf("initialized %s state at %s\n", cfg.Product, inst.File.Path)
	},
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current state",
	Run: func(cmd *cobra.Command, args []string) {
		inst := openInstance(cmd.Context(), true)
		defer inst.Close()

		raw, err := json.Marshal(inst.Store.Current())
		if err != nil {
			fatal("Error encoding state", err)
		}
		if showYAML {
			if err := printYAML(raw); err != nil {
				fatal("Error encoding state", err)
			}
			return
		}
		if err := printIndented(raw); err != nil {
			fatal("Error writing output", err)
		}
	},
}

var stateApplyCmd = &cobra.Command{
	Use:   "apply [file|-]",
	Short: "Dispatch actions read as JSON envelopes",
	Long: `Apply reads one action envelope {"type": ..., "payload": ...} or a JSON
array of them, validates every payload, and only then dispatches them in
order. The resulting state is saved to the snapshot.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			fatal("Error reading actions", err)
		}
		actions, err := parseActions(data)
		if err != nil {
			fatal("Invalid action", err)
		}
		if applyDryRun {
			for _, a := range actions {
				fmt.Println(a.Type())
			}
			return
		}

		inst := openInstance(cmd.Context(), false)
		defer inst.Close()
		inst.Store.DispatchAll(actions...)
		fmt.Printf("applied %d action(s), seq %d\n", len(actions), inst.Store.Seq())
	},
}

var stateInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print internal component state",
	Run: func(cmd *cobra.Command, args []string) {
		inst := openInstance(cmd.Context(), true)
		defer inst.Close()

		out := map[string]any{
			inst.Store.ComponentType():   inst.Store.State(),
			inst.File.ComponentType():    inst.File.State(),
			inst.Gateway.ComponentType(): inst.Gateway.State(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fatal("Error encoding output", err)
		}
	},
}

var stateFollowCmd = &cobra.Command{
	Use:   "follow",
	Short: "Print transitions caused by external edits of the snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		inst := openInstance(ctx, true)
		defer inst.Close()

		src := adapter.NewSource(inst.Store.Subscribe(ctx))
		if err := src.Start(ctx); err != nil {
			fatal("Error starting event source", err)
		}
		if err := inst.Follow(ctx); err != nil {
			fatal("Error watching snapshot", err)
		}
		logger.Info("following snapshot", zap.String("path", inst.File.Path))

		for e := range src.Events() {
			c, ok := e.(store.Change)
			if !ok {
				continue
			}
			fmt.Printf("%s %s\n", c.At.Format("15:04:05"), e)
			for name, n := range c.Next.Counts() {
				if prev := c.Prev.Counts()[name]; prev != n {
					fmt.Printf("  %s: %d -> %d\n", name, prev, n)
				}
			}
		}
	},
}

// parseActions accepts a single envelope or an array of envelopes.
// Nothing is returned unless every action is valid.
func parseActions(data []byte) ([]store.Action, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no actions given")
	}
	if trimmed[0] != '[' {
		a, err := store.ParseAction(trimmed)
		if err != nil {
			return nil, err
		}
		return []store.Action{a}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("actions: %w", err)
	}
	actions := make([]store.Action, 0, len(raws))
	for i, raw := range raws {
		a, err := store.ParseAction(raw)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func printYAML(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	stateInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing snapshot")
	stateShowCmd.Flags().BoolVar(&showYAML, "yaml", false, "Print YAML instead of JSON")
	stateApplyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Validate and list actions without applying them")

	stateCmd.AddCommand(stateInitCmd, stateShowCmd, stateApplyCmd, stateInspectCmd, stateFollowCmd)
	rootCmd.AddCommand(stateCmd)
}

