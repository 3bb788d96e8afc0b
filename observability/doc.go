// Package observability wires OpenTelemetry tracing and metrics for
// outbound requests.
//
// Applications that export telemetry install providers once:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing-plugin"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
// Without them the global no-op providers are used and recording is free.
package observability
