package main

import (
	"github.com/spf13/cobra"
	"go.bryk.io/zcap"
	"go.bryk.io/zcap/errors"
)

func invokeCmd() *cobra.Command {
	var (
		capabilityPath, action, invoker string
		keyPath, verificationMethod, out string
	)
	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Construct and sign an invocation against a capability",
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := readFile(capabilityPath)
			if err != nil {
				return err
			}
			capability, err := zcap.ParseCapability(raw)
			if err != nil {
				return errors.Wrap(err, "failed to parse capability")
			}
			key, err := loadKey(keyPath)
			if err != nil {
				return err
			}
			defer key.Destroy()

			inv, err := zcap.Invoke(zcap.InvocationRequest{
				Capability:         capability,
				Action:             action,
				Invoker:            invoker,
				SigningKey:         key,
				VerificationMethod: verificationMethod,
			})
			if err != nil {
				return errors.Wrap(err, "invocation failed")
			}
			return writeJSON(out, inv)
		},
	}
	cmd.Flags().StringVar(&capabilityPath, "capability", "", "path to the capability being invoked")
	cmd.Flags().StringVar(&action, "action", "", "requested action")
	cmd.Flags().StringVar(&invoker, "invoker", "", "invoker identifier")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to the invoker's signing key (PEM)")
	cmd.Flags().StringVar(&verificationMethod, "verification-method", "", "verification method URI for the signing key")
	cmd.Flags().StringVar(&out, "out", "invocation.json", "path to write the signed invocation")
	_ = cmd.MarkFlagRequired("capability")
	_ = cmd.MarkFlagRequired("action")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("verification-method")
	return cmd
}
