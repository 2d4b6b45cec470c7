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
	"bytes"
	"encoding/json"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

type engineJSON struct {
	Config Config   `json:"config"`
	Events []*Event `json:"events"`
}

// MarshalJSON implements json.Marshaler.
func (e *Engine) MarshalJSON() ([]byte, error) {
	events := make([]*Event, 0, len(e.events))
	for _, event := range e.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		return bytes.Compare(events[i].ID[:], events[j].ID[:]) < 0
	})

	return json.Marshal(&engineJSON{
		Config: e.config,
		Events: events,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Engine) UnmarshalJSON(input []byte) error {
	var data engineJSON
	if err := json.Unmarshal(input, &data); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}
	e.config = data.Config
	e.events = make(map[common.Hash]*Event, len(data.Events))
	e.owned = make(map[common.Hash]bool, len(data.Events))
	for _, event := range data.Events {
		if event == nil {
			return errors.New("missing event")
		}
		if _, exists := e.events[event.ID]; exists {
			return errors.New("duplicate event")
		}
		e.events[event.ID] = event
		e.owned[event.ID] = true
	}

	return nil
}
