package zcap

import "encoding/json"

// CaveatList is the ordered, JSON-tagged-dispatch sequence of caveats
// attached to a delegated capability.
type CaveatList []Caveat

// MarshalJSON serializes each caveat to its tagged envelope.
func (l CaveatList) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(l))
	for i, c := range l {
		b, err := MarshalCaveat(c)
		if err != nil {
			return nil, err
		}
		raw[i] = b
	}
	return json.Marshal(raw)
}

// UnmarshalJSON dispatches each element on its "type" tag.
func (l *CaveatList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CaveatList, len(raw))
	for i, r := range raw {
		c, err := UnmarshalCaveat(r)
		if err != nil {
			return err
		}
		out[i] = c
	}
	*l = out
	return nil
}

// Types returns the set of caveat types present in the list.
func (l CaveatList) Types() map[CaveatType]bool {
	out := make(map[CaveatType]bool, len(l))
	for _, c := range l {
		out[c.Type()] = true
	}
	return out
}
