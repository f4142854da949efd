package swapd_test

import (
	"encoding/json"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/swapvault/swapd"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/swaptest/assert"
)

func TestConditionPrinting(t *testing.T) {
	Convey("condition keeps ext and type readable", t, func() {
		cond := swapd.NewCondition("swap", "escrow", []byte{0xAB, 0xCD})

		So(cond.String(), ShouldEqual, "swap/escrow/ABCD")
		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", []byte(cond)))
	})

	Convey("malformed condition is marked invalid", t, func() {
		cond := swapd.Condition("no-slashes")

		So(cond.Validate(), ShouldNotBeNil)
		So(cond.String(), ShouldStartWith, "Invalid Condition")
	})

	Convey("address of a condition is stable", t, func() {
		a := swapd.NewCondition("sigs", "ed25519", []byte("key")).Address()
		b := swapd.NewCondition("sigs", "ed25519", []byte("key")).Address()

		So(a.Equals(b), ShouldBeTrue)
		So(len(a), ShouldEqual, swapd.AddressLength)
	})
}

func TestAddressBech32(t *testing.T) {
	addr := swapd.NewCondition("test", "addr", []byte("alice")).Address()

	enc, err := addr.Bech32()
	assert.Nil(t, err)

	got, err := swapd.ParseAddress(enc)
	assert.Nil(t, err)
	assert.Equal(t, addr, got)

	if s := addr.String(); s != enc {
		t.Fatalf("want %q, got %q", enc, s)
	}
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr swapd.Address
	}{
		"default decoding": {
			json:     `"0102030405060708090a0b0c0d0e0f1011121314"`,
			wantAddr: swapd.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		},
		"hex decoding": {
			json:     `"hex:0102030405060708090a0b0c0d0e0f1011121314"`,
			wantAddr: swapd.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: swapd.NewCondition("foo", "bar", []byte("conditiondata")).Address(),
		},
		"hex of a wrong length": {
			json:    `"hex:0102"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"bad bech32 checksum": {
			json:    `"swap1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a swapd.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestConditionJSON(t *testing.T) {
	cond := swapd.NewCondition("swap", "vault", []byte{1, 2, 3})

	raw, err := json.Marshal(cond)
	assert.Nil(t, err)
	assert.Equal(t, `"swap/vault/010203"`, string(raw))

	var got swapd.Condition
	assert.Nil(t, json.Unmarshal(raw, &got))
	if !got.Equals(cond) {
		t.Fatalf("want %s, got %s", cond, got)
	}
}
