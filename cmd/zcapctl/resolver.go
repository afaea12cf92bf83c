package main

import "go.bryk.io/zcap/edkey"

// fileResolver satisfies zcap.PublicKeyResolver over a set of PEM keys
// loaded from a --keys-file mapping, for verification without a
// long-running key store process.
type fileResolver map[string][32]byte

func newFileResolver(km keyMap) (fileResolver, error) {
	fr := make(fileResolver, len(km))
	for vm, path := range km {
		kp, err := loadKey(path)
		if err != nil {
			return nil, err
		}
		fr[vm] = kp.PublicKey()
		kp.Destroy()
	}
	return fr, nil
}

func (fr fileResolver) ResolveByVerificationMethod(method string) ([32]byte, bool) {
	pub, ok := fr[method]
	return pub, ok
}
