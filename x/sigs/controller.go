package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
)

// SignCodeV1 tags the first version of the signed payload layout.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures validates every signature of tx and bumps the
// sequence of each signer. It returns the signer addresses in signature
// order and fails on the first invalid one.
func VerifyTxSignatures(db custody.KVStore, tx SignedTx, chainID string) ([]custody.Address, error) {
	msg, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	var signers []custody.Address
	for i, sig := range tx.GetSignatures() {
		addr, err := VerifySignature(db, sig, msg, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, addr)
	}
	if signers == nil {
		signers = []custody.Address{}
	}
	return signers, nil
}

// VerifySignature checks a single signature over msg. On success the
// signer's sequence is incremented and stored.
func VerifySignature(db custody.KVStore, sig *StdSignature, msg []byte, chainID string) (custody.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	payload, err := BuildSignBytes(msg, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	b := NewBucket()
	obj, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(payload, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Address(), nil
}

// BuildSignBytes returns the sha512 digest that is signed for msg:
//
//   SignCodeV1 (4) | len(chainID) (1) | chainID | sequence (8, big endian) | msg
//
// Binding the chain id and the sequence prevents replays on other chains
// and of older transactions.
func BuildSignBytes(msg []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !custody.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(msg)
	return h.Sum(nil), nil
}

// BuildSignBytesTx is BuildSignBytes over the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	msg, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(msg, chainID, seq)
}

// SignTx signs tx for chainID with the given sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	raw, err := signer.Sign(payload)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: raw,
		Sequence:  seq,
	}, nil
}
