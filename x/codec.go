package x

import (
	amino "github.com/tendermint/go-amino"

	"github.com/swapvault/swapd/errors"
)

// modelCodec encodes models. Models hold no interface fields, so no type
// registration is needed.
var modelCodec = amino.NewCodec()

// MarshalModel serializes a model to its binary form.
func MarshalModel(m interface{}) ([]byte, error) {
	raw, err := modelCodec.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// UnmarshalModel deserializes raw into the model pointed by dest.
func UnmarshalModel(raw []byte, dest interface{}) error {
	if err := modelCodec.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
