package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.bryk.io/zcap"
	"go.bryk.io/zcap/errors"
	"go.bryk.io/zcap/zconfig"
)

func delegateCmd() *cobra.Command {
	var (
		parentPath, delegatee, target, actions, invoker string
		keyPath, verificationMethod, out                string
		expiresIn                                       time.Duration
		maxChainDepth                                    int
	)
	cmd := &cobra.Command{
		Use:   "delegate",
		Short: "Delegate a capability to a new controller, optionally attenuated",
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := readFile(parentPath)
			if err != nil {
				return err
			}
			parent, err := zcap.ParseCapability(raw)
			if err != nil {
				return errors.Wrap(err, "failed to parse parent capability")
			}
			key, err := loadKey(keyPath)
			if err != nil {
				return err
			}
			defer key.Destroy()

			req := zcap.DelegationRequest{
				Parent:             parent,
				Delegatee:          zcap.One(delegatee),
				Target:             target,
				Invoker:            invoker,
				SigningKey:         key,
				VerificationMethod: verificationMethod,
			}
			if actions != "" {
				req.AllowedAction = zcap.Many(strings.Split(actions, ",")...)
			}
			if expiresIn > 0 {
				req.Expires = time.Now().UTC().Add(expiresIn)
			}
			cfg := zconfig.New(zconfig.WithMaxChainDepth(maxChainDepth))

			child, result, err := zcap.Delegate(req, cfg)
			if err != nil {
				return errors.Wrap(err, "delegation failed")
			}
			if !result.IsValid {
				return errors.Errorf("delegation rejected: %s: %s", result.ErrorCode, result.Message)
			}
			return writeJSON(out, child)
		},
	}
	cmd.Flags().StringVar(&parentPath, "parent", "", "path to the parent capability document")
	cmd.Flags().StringVar(&delegatee, "delegatee", "", "delegatee controller identifier URI")
	cmd.Flags().StringVar(&target, "target", "", "attenuated invocation target (default: inherit parent's)")
	cmd.Flags().StringVar(&actions, "actions", "", "comma-separated allowed actions (default: inherit parent's)")
	cmd.Flags().StringVar(&invoker, "invoker", "", "restrict invocation to this invoker identifier")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to the delegator's signing key (PEM)")
	cmd.Flags().StringVar(&verificationMethod, "verification-method", "", "verification method URI for the signing key")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "duration until expiration (default: 30 days)")
	cmd.Flags().IntVar(&maxChainDepth, "max-chain-depth", 10, "maximum delegation depth set on the delegation config (not checked when delegating)")
	cmd.Flags().StringVar(&out, "out", "child.json", "path to write the delegated capability")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("delegatee")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("verification-method")
	return cmd
}
