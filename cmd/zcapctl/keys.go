package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/errors"
)

func keygenCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new Ed25519 key pair and save it as a PEM file",
		RunE: func(_ *cobra.Command, _ []string) error {
			kp, err := edkey.New()
			if err != nil {
				return errors.Wrap(err, "key generation failed")
			}
			defer kp.Destroy()
			pem, err := kp.MarshalBinary()
			if err != nil {
				return errors.Wrap(err, "failed to encode key")
			}
			if err := os.WriteFile(out, pem, 0o600); err != nil {
				return errors.Wrap(err, "failed to write key file")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "key.pem", "path to write the generated PEM key")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func loadKey(path string) (*edkey.KeyPair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read key file")
	}
	kp, err := edkey.Unmarshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse key file")
	}
	return kp, nil
}

// keyMap is the on-disk shape of a --keys-file: verification method URI to
// PEM key path, used by verify/invoke-validation to build an in-memory
// resolver without requiring a long-running key store process.
type keyMap map[string]string

func loadKeyMap(path string) (keyMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keys file")
	}
	var m keyMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse keys file")
	}
	return m, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write document")
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read "+path)
	}
	return data, nil
}
