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


package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	majordomo "github.com/wealdtech/go-majordomo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"
)

// initTracing initialises the tracing system.
func initTracing(ctx context.Context, majordomoSvc majordomo.Service) error {
	if viper.GetString("tracing.address") == "" {
		log.Debug().Msg("No tracing endpoint supplied; tracing not enabled")
		return nil
	}
	log.Trace().Str("endpoint", viper.GetString("tracing.address")).Msg("Starting tracing")

	driverOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(viper.GetString("tracing.address")),
	}
	if viper.GetString("tracing.client-cert") != "" {
		log.Trace().Msg("Using TLS tracing connection")

		// Load the client certificate and key.
		clientCert, err := majordomoSvc.Fetch(ctx, viper.GetString("tracing.client-cert"))
		if err != nil {
			return errors.Wrap(err, "failed to obtain client certificate")
		}
		clientKey, err := majordomoSvc.Fetch(ctx, viper.GetString("tracing.client-key"))
		if err != nil {
			return errors.Wrap(err, "failed to obtain client key")
		}
		clientPair, err := tls.X509KeyPair(clientCert, clientKey)
		if err != nil {
			return errors.Wrap(err, "failed to load client keypair")
		}

		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{clientPair},
			MinVersion:   tls.VersionTLS13,
		}

		if viper.GetString("tracing.ca-cert") != "" {
			caCert, err := majordomoSvc.Fetch(ctx, viper.GetString("tracing.ca-cert"))
			if err != nil {
				return errors.Wrap(err, "failed to obtain CA certificate")
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return errors.New("failed to add CA certificate")
			}
			tlsCfg.RootCAs = pool
		}

		driverOpts = append(driverOpts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	} else {
		driverOpts = append(driverOpts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, driverOpts...)
	if err != nil {
		return errors.Wrap(err, "failed to create tracing exporter")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("bridged"),
			semconv.ServiceVersionKey.String(ReleaseVersion),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create tracing resource")
	}

	bsp := sdktrace.NewBatchSpanProcessor(exporter)
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	go func() {
		<-ctx.Done()
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down tracing")
		}
	}()

	return nil
}
