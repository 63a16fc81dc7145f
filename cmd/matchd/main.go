package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"clobengine/internal/engine"
	"clobengine/internal/transport"

	"github.com/rs/zerolog/log"
)

func main() {
	address := flag.String("address", "0.0.0.0", "address to listen on")
	port := flag.Int("port", 9001, "port to listen on")
	tradeLogCap := flag.Int("trade-log-cap", 100_000, "max trades retained in the in-memory trade log (0 = unbounded)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.New(engine.Config{TradeLogCap: *tradeLogCap})
	defer eng.Shutdown()

	srv := transport.New(*address, *port, eng)
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("transport stopped")
		}
	}()

	<-ctx.Done()
}
