package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bryk.io/zcap"
	"go.bryk.io/zcap/cli/shell"
	"go.bryk.io/zcap/errors"
	"go.bryk.io/zcap/revocation"
	"go.bryk.io/zcap/zconfig"
)

// consoleCmd starts an interactive session for ad hoc verification work,
// useful when checking several capabilities against the same keys file
// without re-invoking the binary each time.
func consoleCmd() *cobra.Command {
	var keysFile string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start an interactive session for repeated capability verification",
		RunE: func(_ *cobra.Command, _ []string) error {
			km, err := loadKeyMap(keysFile)
			if err != nil {
				return err
			}
			resolver, err := newFileResolver(km)
			if err != nil {
				return err
			}

			sh, err := shell.New(
				shell.WithPrompt("zcapctl> "),
				shell.WithStartMessage("zcapctl interactive console, keys loaded from "+keysFile),
				shell.WithExitMessage("bye"),
			)
			if err != nil {
				return errors.Wrap(err, "failed to start console")
			}
			sh.AddCommand(&shell.Command{
				Name:        "verify",
				Description: "verify a capability's delegation chain",
				Usage:       "verify <path/to/capability.json>",
				Run: func(arg string) string {
					if arg == "" {
						return "usage: verify <path/to/capability.json>"
					}
					raw, err := readFile(arg)
					if err != nil {
						return err.Error()
					}
					capability, err := zcap.ParseCapability(raw)
					if err != nil {
						return err.Error()
					}
					result, err := zcap.ValidateChain(capability, zconfig.Default(), nil, resolver, revocation.NeverRevoked{})
					if err != nil {
						return err.Error()
					}
					if result.IsValid {
						return "valid"
					}
					return fmt.Sprintf("invalid: %s: %s", result.ErrorCode, result.Message)
				},
			})
			sh.Start()
			return nil
		},
	}
	cmd.Flags().StringVar(&keysFile, "keys-file", "", "JSON mapping of verificationMethod URI to PEM key path")
	_ = cmd.MarkFlagRequired("keys-file")
	return cmd
}
