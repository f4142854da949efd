package sigs

import (
	"testing"

	"github.com/swapvault/swapd/crypto"
	"github.com/swapvault/swapd/errors"
	"github.com/swapvault/swapd/store"
	"github.com/swapvault/swapd/swaptest/assert"
)

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	chainID := "emo-music-2345"

	bz := []byte("my special valentine")
	sig0, err := SignTx(priv, NewStdTx(bz), chainID, 0)
	assert.Nil(t, err)
	sig1, err := SignTx(priv, NewStdTx(bz), chainID, 1)
	assert.Nil(t, err)

	empty := &StdSignature{Pubkey: pub}
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// signed sequence 1 while the account starts at 0
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	cond, err := VerifySignature(kv, sig0, bz, chainID)
	assert.Nil(t, err)
	assert.Equal(t, pub.Condition(), cond)

	// replay
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	// wrong payload
	_, err = VerifySignature(kv, sig1, []byte("other"), chainID)
	assert.IsErr(t, errors.ErrSignature, err)

	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.Nil(t, err)

	seq, err := NextNonce(kv, pub.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestBuildSignBytes(t *testing.T) {
	_, err := BuildSignBytes([]byte("x"), "bad", 0)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = BuildSignBytes([]byte("x"), "good-chain", -1)
	assert.IsErr(t, ErrInvalidSequence, err)

	a, err := BuildSignBytes([]byte("x"), "good-chain", 1)
	assert.Nil(t, err)
	b, err := BuildSignBytes([]byte("x"), "good-chain", 2)
	assert.Nil(t, err)
	if string(a) == string(b) {
		t.Fatal("sequence is not part of the sign bytes")
	}
	assert.Equal(t, 64, len(a))
}

func TestCheckAndIncrementSequence(t *testing.T) {
	u := UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey(), Sequence: 4}
	assert.IsErr(t, ErrInvalidSequence, u.CheckAndIncrementSequence(3))
	assert.Nil(t, u.CheckAndIncrementSequence(4))
	assert.Equal(t, int64(5), u.Sequence)

	u.Sequence = (1 << 53) - 1
	assert.IsErr(t, errors.ErrOverflow, u.CheckAndIncrementSequence((1<<53)-1))
}
