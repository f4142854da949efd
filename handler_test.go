package swapd_test

import (
	"encoding/json"
	"testing"

	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest"
	"github.com/swapvault/swapd/swaptest/assert"
)

func TestReadOptions(t *testing.T) {
	cases := map[string]struct {
		json    string
		key     string
		wantErr *errors.Error
		want    int
	}{
		"happy path": {
			json: `{"conf": {"value": 7}}`,
			key:  "conf",
			want: 7,
		},
		"missing key is not an error": {
			json: `{}`,
			key:  "conf",
			want: 0,
		},
		"wrong type": {
			json:    `{"conf": {"value": "seven"}}`,
			key:     "conf",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts swapd.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.json), &opts))

			var conf struct{ Value int }
			err := opts.ReadOptions(tc.key, &conf)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, conf.Value)
			}
		})
	}
}

type recordingInit struct {
	calls *[]string
	name  string
	err   error
}

func (r recordingInit) FromGenesis(swapd.Options, swapd.KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	chain := swapd.ChainInitializers(
		recordingInit{calls: &calls, name: "a"},
		recordingInit{calls: &calls, name: "b", err: errors.ErrInput},
		recordingInit{calls: &calls, name: "c"},
	)
	err := chain.FromGenesis(nil, nil)
	assert.IsErr(t, errors.ErrInput, err)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestNewEvent(t *testing.T) {
	ev := swapd.NewEvent("swap.opened", "escrow", "abc", "maker")
	assert.Equal(t, "swap.opened", ev.Type)
	assert.Equal(t, map[string]string{"escrow": "abc"}, ev.Attributes)
}

type textMsg struct {
	Text string
}

func (textMsg) Path() string { return "test/text" }

func (m textMsg) Validate() error {
	if m.Text == "" {
		return errors.ErrEmpty
	}
	return nil
}

func TestLoadMsg(t *testing.T) {
	var got textMsg
	err := swapd.LoadMsg(&swaptest.Tx{Msg: &textMsg{Text: "hi"}}, &got)
	assert.Nil(t, err)
	assert.Equal(t, "hi", got.Text)

	err = swapd.LoadMsg(&swaptest.Tx{Msg: &textMsg{}}, &got)
	assert.IsErr(t, errors.ErrEmpty, err)

	var wrong swaptest.Msg
	err = swapd.LoadMsg(&swaptest.Tx{Msg: &textMsg{Text: "hi"}}, &wrong)
	assert.IsErr(t, errors.ErrType, err)

	err = swapd.LoadMsg(&swaptest.Tx{}, &got)
	assert.IsErr(t, errors.ErrMsg, err)
}

func TestValidatePath(t *testing.T) {
	assert.Nil(t, swapd.ValidatePath("swap/open"))
	assert.IsErr(t, errors.ErrInput, swapd.ValidatePath("swap"))
	assert.IsErr(t, errors.ErrInput, swapd.ValidatePath("swap/open/now"))
}
