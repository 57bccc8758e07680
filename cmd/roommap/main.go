package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AaronLay10/roommap/internal/api"
	"github.com/AaronLay10/roommap/internal/config"
	"github.com/AaronLay10/roommap/internal/events"
	"github.com/AaronLay10/roommap/internal/mapgen"
	"github.com/AaronLay10/roommap/internal/mqtt"
	"github.com/AaronLay10/roommap/internal/orchestrator"
	"github.com/AaronLay10/roommap/internal/placement"
	"github.com/AaronLay10/roommap/internal/storage"
	"github.com/AaronLay10/roommap/internal/version"
)

func main() {
	if err := run(); err != nil {
		events.Emit("error", "system.error", err.Error(), nil)
		log.Fatalf("roommap: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		return err
	}
	mapCfg, err := config.LoadMapConfig(env.ConfigPath)
	if err != nil {
		return err
	}

	seed, err := resolveSeed(mapCfg.Level.Seed)
	if err != nil {
		return err
	}
	key := mapCfg.LevelKey()

	hostname, _ := os.Hostname()
	events.Emit("info", "system.startup", "roommap starting", map[string]interface{}{
		"service":  "roommap",
		"version":  version.String(),
		"hostname": hostname,
		"pid":      os.Getpid(),
		"level":    key,
		"seed":     seed,
		"store":    env.Store,
	})

	backend, err := openBlobs(ctx, env, secrets)
	if err != nil {
		return err
	}
	defer backend.close()

	reg := mapCfg.Registry()
	gen := mapgen.NewGenerator(rand.New(rand.NewSource(seed)), mapCfg.MapBounds(), mapgen.Options{
		MaxInDegree: mapCfg.MaxInDegree,
		Registry:    reg,
	})
	orch := orchestrator.New(orchestrator.Config{
		Key:        key,
		Blueprints: mapCfg.ColumnBlueprints(),
		Generator:  gen,
		Store:      storage.NewLayoutStore(backend.blobs, reg),
		Placer:     placement.NewRecorder(),
		Seed:       seed,
	})

	// An unsaved layout is still playable, so the store never blocks readiness.
	api.SetStoreState(true, true)
	orch.OnLayout(func(_ string, _ *mapgen.MapLayout, state orchestrator.State) {
		api.SetStoreState(state != orchestrator.StateUnsaved, true)
	})

	var broker *mqtt.Client
	if env.MQTTEnabled {
		broker = connectMQTT(env, key, orch)
		defer broker.Disconnect()
	} else {
		api.SetMQTTState(false, true)
	}

	if err := orch.Start(ctx); err != nil {
		if !errors.Is(err, orchestrator.ErrNotSaved) {
			return err
		}
		log.Printf("warning: %v", err)
	}

	api.InitAuth(secrets)
	api.InitTLS(env.TLSCert, env.TLSKey)
	api.InitMetrics(key, seed)
	api.SetController(orch)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.ListenAndServe(gctx, env.APIPort)
	})

	err = g.Wait()
	events.Emit("info", "system.shutdown", "roommap stopping", map[string]interface{}{
		"level": key,
		"state": string(orch.State()),
	})
	return err
}

// connectMQTT wires the regenerate trigger and layout announcer. A broker
// that is down at startup is tolerated; paho keeps retrying.
func connectMQTT(env *config.Env, key string, orch *orchestrator.Orchestrator) *mqtt.Client {
	topics := mqtt.Topics{Prefix: env.MQTTTopicPrefix, Level: key}
	client := mqtt.NewClient(env.MQTTURL, "roommap-"+uuid.NewString())

	trigger := mqtt.NewRegenerateTrigger(client, orch, topics)
	client.OnConnect(func() {
		api.SetMQTTState(true, true)
		if err := trigger.Subscribe(); err != nil {
			events.Emit("error", "mqtt.error", "subscribe failed", map[string]interface{}{
				"topic": topics.Regenerate(),
				"error": err.Error(),
			})
		}
	})
	client.OnConnectionLost(func(error) {
		api.SetMQTTState(false, true)
		trigger.ClearSubscription()
	})

	orch.OnLayout(mqtt.NewAnnouncer(client, topics).Hook())

	if err := client.Connect(); err != nil {
		api.SetMQTTState(false, true)
		events.Emit("warn", "mqtt.error", "initial connect failed", map[string]interface{}{
			"broker": env.MQTTURL,
			"error":  err.Error(),
		})
	}
	return client
}
