package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tourbook/app"
	"tourbook/db"
	"tourbook/gateway"
	"tourbook/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	gatewayAddr := os.Getenv("GATEWAY_ADDR")

	traceProvider := tracing.ConfigureTraceProvider(os.Getenv("JAEGER_ENDPOINT"), gatewayAddr)

	redisClient := db.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer redisClient.Close()

	a := app.New(
		addr,
		redisClient,
		gateway.NewPaymentsClient(gatewayAddr),
		gateway.NewEmailClient(gatewayAddr),
		gateway.NewRendererClient(gatewayAddr),
		gateway.NewManifestClient(gatewayAddr),
		traceProvider,
	)

	if err := a.Run(ctx); err != nil {
		panic(err)
	}
}
