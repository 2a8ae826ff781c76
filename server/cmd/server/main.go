package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/entsync/config"
	"github.com/automoto/entsync/server/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Server

	port := flag.Uint("port", cfg.Port, "Server port")
	tickRate := flag.Int("tickrate", cfg.TickRate, "Server tick rate (snapshots per second)")
	name := flag.String("name", "entsync arena", "Server display name")
	entities := flag.Int("entities", cfg.EntityCount, "Number of wandering entities")
	speed := flag.Float64("speed", cfg.WanderSpeed, "Entity wander speed (units/second)")
	drop := flag.Float64("drop", cfg.DropRate, "Probability of dropping a snapshot per client [0,1]")
	reorder := flag.Float64("reorder", cfg.ReorderRate, "Probability of delaying a snapshot behind the next one [0,1]")
	seed := flag.Uint64("seed", 1, "Random seed for the arena and lossy links")
	flag.Parse()

	cfg.Port = *port
	cfg.TickRate = *tickRate
	cfg.EntityCount = *entities
	cfg.WanderSpeed = *speed
	cfg.DropRate = *drop
	cfg.ReorderRate = *reorder

	reg := prometheus.NewRegistry()
	server := core.NewServer(cfg, *name, *seed, reg)
	server.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting entsync server %q on port %d (tick rate: %d/s, entities: %d, drop: %.2f, reorder: %.2f)",
		*name, cfg.Port, cfg.TickRate, cfg.EntityCount, cfg.DropRate, cfg.ReorderRate)
	if err := server.Start(cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
