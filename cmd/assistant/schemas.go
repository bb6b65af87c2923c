package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/assistant/pkg/contract"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas [name]",
	Short: "List contract schemas, or describe one",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			for _, name := range contract.Names() {
				fmt.Println(name)
			}
			return
		}
		desc, err := contract.Describe(args[0])
		if err != nil {
			fatal("Error describing schema", err)
		}
		fmt.Println(desc)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema> [file|-]",
	Short: "Check a JSON payload against a schema",
	Long: `Validate reads a JSON payload from a file or stdin and checks it against
the named schema. On failure it prints the violation path and exits 1.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args[1:])
		if err != nil {
			fatal("Error reading payload", err)
		}
		if _, err := contract.Decode(args[0], data); err != nil {
			fatal("Invalid payload", err)
		}
		fmt.Println("ok")
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <schema> [file|-]",
	Short: "Print the canonical encoding of a payload",
	Long: `Encode decodes a payload against the named schema and encodes the result
again, printing the canonical form the client would send.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args[1:])
		if err != nil {
			fatal("Error reading payload", err)
		}
		value, err := contract.Decode(args[0], data)
		if err != nil {
			fatal("Invalid payload", err)
		}
		out, err := contract.Encode(args[0], value)
		if err != nil {
			fatal("Error encoding payload", err)
		}
		if err := printIndented(out); err != nil {
			fatal("Error writing output", err)
		}
	},
}

func printIndented(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(os.Stdout)
	return err
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(encodeCmd)
}
