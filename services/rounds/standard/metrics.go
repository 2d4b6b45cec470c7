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
	currentRound prometheus.Gauge
	roundEnd     prometheus.Gauge
	rotationOpen prometheus.Gauge
	latestTime   prometheus.Gauge
)

func registerMetrics(ctx context.Context, monitor metrics.Service) error {
	if currentRound != nil {
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
	currentRound = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "rounds",
		Name:      "current",
		Help:      "The number of the current relay round",
	})
	if err := prometheus.Register(currentRound); err != nil {
		return errors.Wrap(err, "failed to register current round")
	}

	roundEnd = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "rounds",
		Name:      "end_ts",
		Help:      "The end time of the current relay round",
	})
	if err := prometheus.Register(roundEnd); err != nil {
		return errors.Wrap(err, "failed to register round end")
	}

	rotationOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "rounds",
		Name:      "rotation_open",
		Help:      "1 if a relay rotation may be proposed",
	})
	if err := prometheus.Register(rotationOpen); err != nil {
		return errors.Wrap(err, "failed to register rotation open")
	}

	latestTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "rounds",
		Name:      "latest_ts",
		Help:      "Timestamp of last check",
	})
	if err := prometheus.Register(latestTime); err != nil {
		return errors.Wrap(err, "failed to register latest timestamp")
	}

	return nil
}

func monitorStatus(status *Status) {
	if currentRound == nil {
		return
	}
	currentRound.Set(float64(status.Round))
	roundEnd.Set(float64(status.RoundEnd))
	if status.RotationOpen {
		rotationOpen.Set(1)
	} else {
		rotationOpen.Set(0)
	}
	latestTime.SetToCurrentTime()
}
