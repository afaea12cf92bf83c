package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.bryk.io/zcap"
	"go.bryk.io/zcap/cli"
	"go.bryk.io/zcap/errors"
	"go.bryk.io/zcap/revocation"
	"go.bryk.io/zcap/zconfig"
)

func verifyCmd() *cobra.Command {
	var (
		capabilityPath, invocationPath, keysFile, configFile string
		maxChainDepth                                        int
		clockSkew                                            time.Duration
		noSpinner                                            bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a capability's delegation chain, or a signed invocation",
		RunE: func(c *cobra.Command, _ []string) error {
			raw, err := readFile(capabilityPath)
			if err != nil {
				return err
			}
			capability, err := zcap.ParseCapability(raw)
			if err != nil {
				return errors.Wrap(err, "failed to parse capability")
			}

			km, err := loadKeyMap(keysFile)
			if err != nil {
				return err
			}
			resolver, err := newFileResolver(km)
			if err != nil {
				return err
			}

			ec, err := loadEngineConf(configFile, c.Flags(), engineConf{
				MaxChainDepth: maxChainDepth,
				ClockSkew:     clockSkew,
			})
			if err != nil {
				return err
			}
			cfg := zconfig.New(
				zconfig.WithMaxChainDepth(ec.MaxChainDepth),
				zconfig.WithMaxClockSkew(ec.ClockSkew),
			)

			var spin *cli.Spinner
			if !noSpinner {
				spin = cli.NewSpinner()
				spin.Start()
			}

			result, verifyErr := zcap.ValidateChain(capability, cfg, nil, resolver, revocation.NeverRevoked{})
			if invocationPath != "" && verifyErr == nil && result.IsValid {
				invRaw, err := readFile(invocationPath)
				if err == nil {
					inv := new(zcap.Invocation)
					if err := json.Unmarshal(invRaw, inv); err == nil {
						result, verifyErr = zcap.ValidateInvocation(inv, capability, cfg, nil, resolver, revocation.NeverRevoked{})
					}
				}
			}

			if spin != nil {
				spin.Stop()
			}
			if verifyErr != nil {
				return errors.Wrap(verifyErr, "verification could not be completed")
			}
			if result.IsValid {
				fmt.Println("valid")
				return nil
			}
			fmt.Printf("invalid: %s: %s\n", result.ErrorCode, result.Message)
			return errors.Errorf("chain rejected: %s", result.ErrorCode)
		},
	}
	cmd.Flags().StringVar(&capabilityPath, "capability", "", "path to the capability being verified")
	cmd.Flags().StringVar(&invocationPath, "invocation", "", "optional path to a signed invocation to verify against the capability")
	cmd.Flags().StringVar(&keysFile, "keys-file", "", "JSON mapping of verificationMethod URI to PEM key path")
	cmd.Flags().IntVar(&maxChainDepth, "max-chain-depth", 10, "maximum accepted delegation depth")
	cmd.Flags().DurationVar(&clockSkew, "clock-skew", 5*time.Minute, "symmetric clock skew tolerance")
	cmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "disable the progress spinner")
	cmd.Flags().StringVar(&configFile, "config", "", "optional config file (YAML/JSON) overriding depth/skew defaults")
	_ = cmd.MarkFlagRequired("capability")
	_ = cmd.MarkFlagRequired("keys-file")
	return cmd
}
