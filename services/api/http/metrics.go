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
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wealdtech/bridged/services/metrics"
)

var metricsNamespace = "bridged"

var requestsTotal *prometheus.CounterVec

func registerMetrics(ctx context.Context, monitor metrics.Service) error {
	if requestsTotal != nil {
		// Already registered.
		return nil
	}
	if monitor == nil {
		// No monitor.
		return nil
	}
	if monitor.Presenter() == "prometheus" {
		return registerPrometheusMetrics(ctx)
	}
	return nil
}

func registerPrometheusMetrics(_ context.Context) error {
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "The number of API requests",
	}, []string{"method", "status"})
	if err := prometheus.Register(requestsTotal); err != nil {
		return errors.Wrap(err, "failed to register requests total")
	}

	return nil
}

func monitorRequest(method string, status int) {
	if requestsTotal != nil {
		requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
}
