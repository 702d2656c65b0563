package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wsapp/storefront/internal/command"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <command> [json]",
	Short: "Run one command in-process and print its JSON result",
	Long: `Invoke runs a command through the same registry the bridge uses and
prints the result as JSON. Use "-" to read the payload from stdin.

Example:
  storefront invoke list-users
  storefront invoke create-user '{"name":"Ada","email":"ada@example.com"}'
  echo '{"total_amount":12.5}' | storefront invoke create-order -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInvoke,
}

func runInvoke(cmd *cobra.Command, args []string) error {
	var payload []byte
	if len(args) == 2 {
		payload = []byte(args[1])
		if args[1] == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
			payload = b
		}
	}

	a, err := newApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.registry.Invoke(cmd.Context(), args[0], payload)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	printJSON(out)
	return nil
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Print the available command names",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, n := range command.Names() {
			fmt.Fprintln(os.Stdout, n)
		}
	},
}
