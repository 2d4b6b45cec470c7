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

package rounds

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type registryJSON struct {
	Config       Config   `json:"config"`
	Rounds       []*Round `json:"rounds"`
	LastRotation uint64   `json:"last_rotation"`
}

// MarshalJSON implements json.Marshaler.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(&registryJSON{
		Config:       r.config,
		Rounds:       r.rounds,
		LastRotation: r.lastRotation,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registry) UnmarshalJSON(input []byte) error {
	var data registryJSON
	if err := json.Unmarshal(input, &data); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}
	for i, round := range data.Rounds {
		if round == nil || round.Number != uint64(i) {
			return errors.New("rounds out of sequence")
		}
	}
	r.config = data.Config
	r.rounds = data.Rounds
	if r.rounds == nil {
		r.rounds = make([]*Round, 0)
	}
	r.lastRotation = data.LastRotation

	return nil
}
