// Command zcapctl is a small, file-based CLI for the zcap library: it
// issues root capabilities, delegates and invokes them, and verifies a
// presented capability chain, all operating on JSON-LD documents on disk.
// It is not an HTTP invocation transport; capability documents move between
// invocations as files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "zcapctl",
		Short:         "Issue, delegate, invoke, and verify ZCAP-LD capabilities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		keygenCmd(),
		rootCmd(),
		delegateCmd(),
		invokeCmd(),
		verifyCmd(),
		consoleCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
