package app

import (
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
)

// ResultSet is the wire form of a query answer. Keys and Values are of
// the same length and pair up by position.
type ResultSet struct {
	Keys   [][]byte `json:"keys"`
	Values [][]byte `json:"values"`
}

// NewResultSet splits models into keys and values.
func NewResultSet(models []swapd.Model) *ResultSet {
	res := ResultSet{
		Keys:   make([][]byte, len(models)),
		Values: make([][]byte, len(models)),
	}
	for i, m := range models {
		res.Keys[i] = m.Key
		res.Values[i] = m.Value
	}
	return &res
}

// Models inverts NewResultSet.
func (r *ResultSet) Models() ([]swapd.Model, error) {
	if len(r.Keys) != len(r.Values) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(r.Keys), len(r.Values))
	}
	mods := make([]swapd.Model, len(r.Keys))
	for i := range mods {
		mods[i] = swapd.Pair(r.Keys[i], r.Values[i])
	}
	return mods, nil
}

// UnmarshalOneResult unmarshals the first model into o. It returns
// ErrNotFound if there is none.
func UnmarshalOneResult(models []swapd.Model, o swapd.Persistent) error {
	if len(models) == 0 {
		return errors.Wrap(errors.ErrNotFound, "no result")
	}
	return o.Unmarshal(models[0].Value)
}
