// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package profile

import (
	"bytes"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/ronin-chain/dpos-contract/ronin"
)

// ProofMessage is the digest a candidate signs to prove it holds the key of pubkey.
func ProofMessage(id ronin.Address, pubkey []byte) ronin.Bytes32 {
	return ronin.Keccak256([]byte("ronin-pubkey-proof"), pubkey, id[:])
}

// SignProof produces a proof of possession of key for the candidate id.
func SignProof(key *secp256k1.PrivateKey, id ronin.Address, pubkey []byte) []byte {
	msg := ProofMessage(id, pubkey)
	return ecdsa.SignCompact(key, msg[:], len(pubkey) == secp256k1.PubKeyBytesLenCompressed)
}

// verifyProof checks proof is a compact signature over ProofMessage recovering to pubkey.
func verifyProof(id ronin.Address, pubkey, proof []byte) bool {
	msg := ProofMessage(id, pubkey)
	pub, compressed, err := ecdsa.RecoverCompact(proof, msg[:])
	if err != nil {
		return false
	}
	if compressed {
		return bytes.Equal(pub.SerializeCompressed(), pubkey)
	}
	return bytes.Equal(pub.SerializeUncompressed(), pubkey)
}
