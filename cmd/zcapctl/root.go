package main

import (
	"github.com/spf13/cobra"
	"go.bryk.io/zcap"
	"go.bryk.io/zcap/errors"
)

func rootCmd() *cobra.Command {
	var target, controller, out string
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Derive a root capability for an invocation target",
		RunE: func(_ *cobra.Command, _ []string) error {
			cap, err := zcap.NewRootCapability(target, zcap.One(controller))
			if err != nil {
				return errors.Wrap(err, "failed to derive root capability")
			}
			return writeJSON(out, cap)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "invocation target URI")
	cmd.Flags().StringVar(&controller, "controller", "", "controller identifier URI")
	cmd.Flags().StringVar(&out, "out", "root.json", "path to write the root capability")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("controller")
	return cmd
}
