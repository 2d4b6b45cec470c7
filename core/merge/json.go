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

package merge

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type registryJSON struct {
	Config Config   `json:"config"`
	Routes []*Route `json:"routes"`
	Pools  []*Pool  `json:"pools"`
}

// MarshalJSON implements json.Marshaler.
func (r *Registry) MarshalJSON() ([]byte, error) {
	data := &registryJSON{
		Config: r.config,
		Routes: make([]*Route, 0, len(r.routes)),
		Pools:  make([]*Pool, 0, len(r.pools)),
	}
	for _, route := range r.routes {
		data.Routes = append(data.Routes, route)
	}
	for _, pool := range r.pools {
		data.Pools = append(data.Pools, pool)
	}

	return json.Marshal(data)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registry) UnmarshalJSON(input []byte) error {
	var data registryJSON
	if err := json.Unmarshal(input, &data); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}

	res := New(data.Config)
	for _, route := range data.Routes {
		res.routes[route.AlienToken] = route
	}
	for _, pool := range data.Pools {
		if _, exists := pool.Token(pool.Canon); !exists {
			return errors.New("pool canon not in pool")
		}
		res.pools[pool.ID] = pool
		for _, token := range pool.Tokens {
			res.tokenPool[token.Token] = pool.ID
		}
	}
	*r = *res

	return nil
}
