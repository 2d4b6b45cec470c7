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


package http

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"github.com/wealdtech/bridged/core/state"
)

type effectResponse struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

type submitResponse struct {
	Sequence uint64            `json:"sequence"`
	Effects  []*effectResponse `json:"effects"`
}

// submitCommand submits the command named in the path, with the body as its JSON representation.
func (s *Service) submitCommand(ctx *fasthttp.RequestCtx) {
	name, ok := ctx.UserValue("name").(string)
	if !ok || name == "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New("no command supplied"))
		return
	}

	cmd, err := state.NewCommand(name)
	if err != nil {
		writeError(ctx, statusForError(err), err)
		return
	}
	if err := json.Unmarshal(ctx.PostBody(), cmd); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, errors.Wrap(err, "invalid command"))
		return
	}

	opCtx := handlerContext(ctx)
	effects, err := s.submitter.Submit(opCtx, cmd)
	if err != nil {
		log.Debug().Str("command", name).Err(err).Msg("Command failed")
		writeError(ctx, statusForError(err), err)
		return
	}

	res := &submitResponse{
		Sequence: s.stateProvider.Sequence(opCtx),
		Effects:  make([]*effectResponse, len(effects)),
	}
	for i := range effects {
		res.Effects[i] = &effectResponse{
			Name: effects[i].EffectName(),
			Data: effects[i],
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, res)
}
