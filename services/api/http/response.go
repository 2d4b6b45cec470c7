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
	"errors"

	"github.com/valyala/fasthttp"
	"github.com/wealdtech/bridged/core/state"
	"github.com/wealdtech/bridged/core/types"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusForError maps an error to an HTTP status code.
func statusForError(err error) int {
	if errors.Is(err, state.ErrUnknownCommand) {
		return fasthttp.StatusNotFound
	}
	switch types.KindOf(err) {
	case types.KindPrecondition:
		return fasthttp.StatusUnprocessableEntity
	case types.KindReplay:
		return fasthttp.StatusConflict
	case types.KindNotFound:
		return fasthttp.StatusNotFound
	case types.KindUnauthorized:
		return fasthttp.StatusForbidden
	default:
		return fasthttp.StatusInternalServerError
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, err error) {
	res := &errorResponse{
		Error: err.Error(),
	}
	if kind := types.KindOf(err); kind != types.KindUnknown {
		res.Kind = kind.String()
	}
	writeJSON(ctx, status, res)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"error":"failed to marshal response"}`)
		monitorRequest(string(ctx.Method()), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
	monitorRequest(string(ctx.Method()), status)
}
