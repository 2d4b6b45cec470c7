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


package standard

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wealdtech/bridged/services/metrics"
)

var metricsNamespace = "bridged"

var (
	commandsTotal *prometheus.CounterVec
	effectsTotal  *prometheus.CounterVec
	sequence      prometheus.Gauge
)

func registerMetrics(ctx context.Context, monitor metrics.Service) error {
	if commandsTotal != nil {
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
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "ledger",
		Name:      "commands_total",
		Help:      "The number of commands submitted to the ledger",
	}, []string{"command", "result"})
	if err := prometheus.Register(commandsTotal); err != nil {
		return errors.Wrap(err, "failed to register commands total")
	}

	effectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "ledger",
		Name:      "effects_total",
		Help:      "The number of effects emitted by the ledger",
	}, []string{"effect"})
	if err := prometheus.Register(effectsTotal); err != nil {
		return errors.Wrap(err, "failed to register effects total")
	}

	sequence = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "ledger",
		Name:      "sequence",
		Help:      "The sequence of the last journalled command",
	})
	if err := prometheus.Register(sequence); err != nil {
		return errors.Wrap(err, "failed to register sequence")
	}

	return nil
}

func monitorCommand(command string, result string) {
	if commandsTotal != nil {
		commandsTotal.WithLabelValues(command, result).Inc()
	}
}

func monitorEffect(effect string) {
	if effectsTotal != nil {
		effectsTotal.WithLabelValues(effect).Inc()
	}
}

func monitorSequence(val uint64) {
	if sequence != nil {
		sequence.Set(float64(val))
	}
}
