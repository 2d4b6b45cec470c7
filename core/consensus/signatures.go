// Copyright © 2026 Weald Technology Trading.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package consensus

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/wealdtech/bridged/core/rounds"
	"github.com/wealdtech/bridged/core/types"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidSignature is returned when a signer cannot be recovered.
	ErrInvalidSignature = types.NewError(types.KindPrecondition, "invalid signature")
	// ErrSignersUnordered is returned when signers are not in strictly ascending order.
	ErrSignersUnordered = types.NewError(types.KindPrecondition, "signers not in ascending order")
	// ErrInsufficientSignatures is returned when too few relays of the round signed.
	ErrInsufficientSignatures = types.NewError(types.KindUnauthorized, "insufficient relay signatures")
)

// SignatureLength is the length of a recoverable signature.
const SignatureLength = crypto.SignatureLength

// VerifySignatures checks pre-aggregated signatures over a digest against a round.
// Signers must be supplied in strictly ascending order, which rules out duplicates.
// Signers outside the round are ignored.
// It returns the relays of the round that signed.
func VerifySignatures(round *rounds.Round,
	digest common.Hash,
	signatures [][]byte,
) (
	[]common.Address,
	error,
) {
	signers := make([]common.Address, len(signatures))
	g := new(errgroup.Group)
	for i := range signatures {
		g.Go(func() error {
			if len(signatures[i]) != SignatureLength {
				return errors.Wrapf(ErrInvalidSignature, "signature %d has length %d", i, len(signatures[i]))
			}
			pubKey, err := crypto.SigToPub(digest.Bytes(), signatures[i])
			if err != nil {
				return errors.Wrapf(ErrInvalidSignature, "signature %d: %v", i, err)
			}
			signers[i] = crypto.PubkeyToAddress(*pubKey)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	relays := make([]common.Address, 0, len(signers))
	for i := range signers {
		if i > 0 && signers[i].Cmp(signers[i-1]) <= 0 {
			return nil, ErrSignersUnordered
		}
		if round.Contains(signers[i]) {
			relays = append(relays, signers[i])
		}
	}
	if len(relays) < round.RequiredVotes() {
		return nil, ErrInsufficientSignatures
	}

	return relays, nil
}
