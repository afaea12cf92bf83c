package zcap

import (
	"encoding/json"

	"go.bryk.io/zcap/faults"
)

// ParseCapability dispatches between RootCapability and DelegatedCapability
// based on the presence of a parentCapability field, and returns the
// concrete value as the Capability interface.
func ParseCapability(data []byte) (Capability, error) {
	var probe struct {
		ParentCapability json.RawMessage `json:"parentCapability"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, faults.SerializationFault(err)
	}
	if probe.ParentCapability != nil {
		d := new(DelegatedCapability)
		if err := json.Unmarshal(data, d); err != nil {
			return nil, err
		}
		return d, nil
	}
	r := new(RootCapability)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}
