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

package payload

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrEmpty is returned when decoding an empty payload.
var ErrEmpty = errors.New("empty payload")

type rotationRLP struct {
	Round        uint64
	Relays       []common.Address
	StartTime    uint64
	ExpectedCost *big.Int
}

type withdrawalRLP struct {
	Token        common.Address
	Amount       *big.Int
	Recipient    common.Address
	ExpectedCost *big.Int
}

type mergeBurnRLP struct {
	BurnToken    common.Address
	Amount       *big.Int
	TargetToken  common.Address
	Recipient    []byte
	ExpectedCost *big.Int
}

type roundRelaysRLP struct {
	Network string
	Round   uint64
	Relays  []common.Address
	Start   uint64
	End     uint64
}

// Encode encodes a payload as its kind followed by the RLP of its body.
func Encode(p Payload) ([]byte, error) {
	var body any
	switch v := p.(type) {
	case *Rotation:
		body = &rotationRLP{
			Round:        v.Round,
			Relays:       v.Relays,
			StartTime:    v.StartTime,
			ExpectedCost: v.ExpectedCost.ToBig(),
		}
	case *Withdrawal:
		body = &withdrawalRLP{
			Token:        v.Token,
			Amount:       v.Amount.ToBig(),
			Recipient:    v.Recipient,
			ExpectedCost: v.ExpectedCost.ToBig(),
		}
	case *MergeBurn:
		body = &mergeBurnRLP{
			BurnToken:    v.BurnToken,
			Amount:       v.Amount.ToBig(),
			TargetToken:  v.TargetToken,
			Recipient:    v.Recipient,
			ExpectedCost: v.ExpectedCost.ToBig(),
		}
	case *RoundRelays:
		body = &roundRelaysRLP{
			Network: v.Network,
			Round:   v.Round,
			Relays:  v.Relays,
			Start:   v.Start,
			End:     v.End,
		}
	default:
		return nil, errors.New("unsupported payload")
	}

	data, err := rlp.EncodeToBytes(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode payload body")
	}

	return append([]byte{byte(p.Kind())}, data...), nil
}

// Decode decodes a payload.
func Decode(data []byte) (Payload, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	body := data[1:]
	switch Kind(data[0]) {
	case KindRotation:
		tmp := &rotationRLP{}
		if err := rlp.DecodeBytes(body, tmp); err != nil {
			return nil, errors.Wrap(err, "invalid rotation payload")
		}
		cost, err := toAmount(tmp.ExpectedCost)
		if err != nil {
			return nil, errors.Wrap(err, "invalid expected cost")
		}

		return &Rotation{
			Round:        tmp.Round,
			Relays:       tmp.Relays,
			StartTime:    tmp.StartTime,
			ExpectedCost: cost,
		}, nil
	case KindWithdrawal:
		tmp := &withdrawalRLP{}
		if err := rlp.DecodeBytes(body, tmp); err != nil {
			return nil, errors.Wrap(err, "invalid withdrawal payload")
		}
		amount, err := toAmount(tmp.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "invalid amount")
		}
		cost, err := toAmount(tmp.ExpectedCost)
		if err != nil {
			return nil, errors.Wrap(err, "invalid expected cost")
		}

		return &Withdrawal{
			Token:        tmp.Token,
			Amount:       amount,
			Recipient:    tmp.Recipient,
			ExpectedCost: cost,
		}, nil
	case KindMergeBurn:
		tmp := &mergeBurnRLP{}
		if err := rlp.DecodeBytes(body, tmp); err != nil {
			return nil, errors.Wrap(err, "invalid merge burn payload")
		}
		amount, err := toAmount(tmp.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "invalid amount")
		}
		cost, err := toAmount(tmp.ExpectedCost)
		if err != nil {
			return nil, errors.Wrap(err, "invalid expected cost")
		}

		return &MergeBurn{
			BurnToken:    tmp.BurnToken,
			Amount:       amount,
			TargetToken:  tmp.TargetToken,
			Recipient:    tmp.Recipient,
			ExpectedCost: cost,
		}, nil
	case KindRoundRelays:
		tmp := &roundRelaysRLP{}
		if err := rlp.DecodeBytes(body, tmp); err != nil {
			return nil, errors.Wrap(err, "invalid round relays payload")
		}

		return &RoundRelays{
			Network: tmp.Network,
			Round:   tmp.Round,
			Relays:  tmp.Relays,
			Start:   tmp.Start,
			End:     tmp.End,
		}, nil
	default:
		return nil, errors.Errorf("unknown payload kind %d", data[0])
	}
}

func toAmount(input *big.Int) (uint256.Int, error) {
	if input == nil {
		return uint256.Int{}, nil
	}
	res, overflow := uint256.FromBig(input)
	if overflow {
		return uint256.Int{}, errors.New("amount overflow")
	}

	return *res, nil
}
