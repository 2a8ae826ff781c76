package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/entsync/config"
	"github.com/automoto/entsync/metrics"
	"github.com/automoto/entsync/network"
	"github.com/automoto/entsync/scenes"
	"github.com/automoto/entsync/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize persistence and load saved tuning before flags override it
	persist, err := config.OpenPersistence("entsync")
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	config.LoadSavedSync(persist)
	cfg := config.Sync

	addr := flag.String("addr", "localhost:5456", "Server address (host:port)")
	tickRate := flag.Int("tickrate", cfg.TickRate, "Client update rate (ticks per second)")
	threshold := flag.Float64("threshold", cfg.DivergenceThreshold, "Divergence threshold in world units")
	blend := flag.String("ease", cfg.BlendEase, "Velocity blend curve (linear, inquad, outquad, ...)")
	strict := flag.Bool("strict", cfg.StrictRoster, "Treat an entity-count change as fatal")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address (empty = off)")
	save := flag.Bool("save", false, "Persist the effective tuning for future runs")
	flag.Parse()

	cfg.TickRate = *tickRate
	cfg.DivergenceThreshold = *threshold
	cfg.BlendEase = *blend
	cfg.StrictRoster = *strict

	if *save && persist != nil {
		if err := persist.SaveTuning(cfg.CurrentTuning()); err != nil {
			log.Printf("Warning: Could not save tuning: %v", err)
		}
	}

	reg := prometheus.NewRegistry()
	syncMetrics := metrics.NewSyncMetrics(reg)
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			log.Printf("Serving metrics on http://%s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	client := network.NewClient(cfg.QueueSize)
	sess, err := session.FromConfig(client, cfg, syncMetrics)
	if err != nil {
		log.Fatalf("Invalid sync configuration: %v", err)
	}

	interval := cfg.TickInterval()
	scene := scenes.NewNetworkedScene(client, sess, interval, cfg.HUDInterval)

	log.Printf("Connecting to %s (tick rate: %d/s, threshold: %.1f, ease: %s, strict: %t)",
		*addr, cfg.TickRate, cfg.DivergenceThreshold, cfg.BlendEase, cfg.StrictRoster)
	client.Connect(*addr)
	defer client.Disconnect()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			log.Println("Shutting down client...")
			return
		case <-ticker.C:
			if client.State() == network.StateConnecting {
				continue
			}
			if err := scene.Update(); err != nil {
				if errors.Is(err, scenes.ErrDisconnected) {
					log.Printf("Connection closed: %v", err)
				} else {
					log.Printf("Sync failed: %v", err)
				}
				return
			}
		}
	}
}
