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


package postgresql

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// logQuery logs the query and its parameters at trace level.
func logQuery(query string, queryVals []any) {
	if e := log.Trace(); e.Enabled() {
		params := make([]string, len(queryVals))
		for i := range queryVals {
			params[i] = fmt.Sprintf("%v", queryVals[i])
		}
		e.Str("query", strings.ReplaceAll(query, "\n", " ")).Strs("params", params).Msg("SQL query")
	}
}

// toDecimal converts an integer to a decimal; nil is zero.
func toDecimal(val *big.Int) decimal.Decimal {
	if val == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(val, 0)
}
