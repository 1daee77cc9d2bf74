// Command gateway is the GT06 tracking protocol gateway's entry
// point (C13): it wires configuration, the device state store, the
// output processor, the sessions manager, the MT02 input source, and
// the admin HTTP surface together, then runs until SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/intelcon-group/gt06-gateway/internal/adminhttp"
	"github.com/intelcon-group/gt06-gateway/internal/config"
	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/mt02"
	"github.com/intelcon-group/gt06-gateway/internal/output"
	"github.com/intelcon-group/gt06-gateway/internal/registry"
	"github.com/intelcon-group/gt06-gateway/internal/session"
	"github.com/intelcon-group/gt06-gateway/pkg/colors"
)

func main() {
	colors.PrintBanner()

	cfg := config.Load()
	lg := logging.New()

	colors.PrintHeader("GT06 GATEWAY INITIALIZATION")
	lg.Info("device state store backend: %s", cfg.DeviceStoreBackend)
	lg.Info("default output protocol: %s (location variant 0x%X)", cfg.DefaultOutputProtocol, cfg.GT06LocationProtocolNumber)

	store := newDeviceStore(cfg)

	builders := output.NewRegistry()
	output.RegisterGT06(builders, cfg.GT06LocationProtocolNumber)

	sources := registry.New()

	sessions := session.NewManager(cfg.OutputProtocolHosts, builders, store, sources, lg)

	hub := adminhttp.NewHub(lg)
	go hub.Run()
	sessions.SetEventSink(hub)

	processor := output.NewProcessor(store, builders, sessions, cfg.DefaultOutputProtocol, lg)

	mt02Client := mt02.NewClient(cfg.MT02APIBaseURL, cfg.MT02APIKey)
	mt02Source := mt02.NewSource(mt02Client, store, processor, lg, cfg.MT02PollInterval)
	sources.Register(mt02Source)

	admin := adminhttp.NewServer(cfg.AdminHTTPPort, store, sessions, hub, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	errorChan := make(chan error, 1)

	for _, src := range sources.All() {
		wg.Add(1)
		go func(src registry.InputSource) {
			defer wg.Done()
			lg.Info("starting input source worker: %s", src.Name())
			src.StartWorker(ctx)
		}(src)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		colors.PrintSubHeader("Admin HTTP Endpoints")
		colors.PrintEndpoint("GET", "/health", "Health check")
		colors.PrintEndpoint("GET", "/devices/:id/state", "Inspect a device's persisted state")
		colors.PrintEndpoint("GET", "/devices/:id/session", "Inspect a device's session liveness")
		colors.PrintEndpoint("GET", "/ws/events", "Live feed of session lifecycle events")
		if err := admin.Start(); err != nil {
			errorChan <- fmt.Errorf("admin HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errorChan:
		logging.Fatal("fatal startup error: %v", err)
	case <-quit:
		colors.PrintShutdown()
	}

	cancel()
	sessions.DisconnectAll()

	wg.Wait()
}

func newDeviceStore(cfg *config.Config) devicestate.Store {
	switch cfg.DeviceStoreBackend {
	case "memory":
		return devicestate.NewMemoryStore()
	case "postgres":
		return devicestate.NewPostgresStore(cfg.PostgresDSN)
	case "redis":
		return devicestate.NewRedisStore(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
	default:
		log.Fatalf("unknown DEVICE_STORE_BACKEND %q, expected redis, memory, or postgres", cfg.DeviceStoreBackend)
		return nil
	}
}
