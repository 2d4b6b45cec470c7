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
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wealdtech/bridged/services/metrics"
)

var metricsNamespace = "bridged"

var (
	jobsScheduled *prometheus.GaugeVec
	jobDurations  *prometheus.HistogramVec
)

func registerMetrics(ctx context.Context, monitor metrics.Service) error {
	if jobsScheduled != nil {
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
	jobsScheduled = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "scheduler",
		Name:      "jobs_scheduled",
		Help:      "The number of jobs currently scheduled",
	}, []string{"class"})
	if err := prometheus.Register(jobsScheduled); err != nil {
		return errors.Wrap(err, "failed to register jobs scheduled")
	}

	jobDurations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "The time taken to run a job",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"class"})
	if err := prometheus.Register(jobDurations); err != nil {
		return errors.Wrap(err, "failed to register job durations")
	}

	return nil
}

func monitorJobScheduled(class string) {
	if jobsScheduled != nil {
		jobsScheduled.WithLabelValues(class).Inc()
	}
}

func monitorJobCancelled(class string) {
	if jobsScheduled != nil {
		jobsScheduled.WithLabelValues(class).Dec()
	}
}

func monitorJobCompleted(class string, duration time.Duration) {
	if jobDurations != nil {
		jobDurations.WithLabelValues(class).Observe(duration.Seconds())
	}
}
