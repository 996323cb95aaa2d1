package command

import (
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/hollowroot/jungeon/internal/driver"
	"github.com/hollowroot/jungeon/internal/game"
	"github.com/hollowroot/jungeon/internal/listener"
	"github.com/hollowroot/jungeon/internal/loader"
	"github.com/hollowroot/jungeon/internal/messaging"
	"github.com/hollowroot/jungeon/internal/persist"
	"github.com/hollowroot/jungeon/internal/session"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Load the world definition and assemble the initial state
	worldCfg, rooms, ghosts, err := loader.NewLoader(cfg.World.DataDir).Load()
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	state := game.NewWorldState(worldCfg, rooms, ghosts)

	// Overlay the last saved snapshot, then wire up background saves
	repo := persist.NewRepository(cfg.World.snapshotPath())
	repo.Restore(state)
	saver := persist.NewWorker(repo)

	engine := game.NewEngine(state, saver)

	// Messaging fabric: embedded nats server plus the per-player publisher
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	pub := messaging.NewPublisher(natsServer, engine)

	cm := listener.NewConnectionManager(engine, session.NewManager(), pub)

	// Create Listeners
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	// Autonomous world ticks: ghost wandering
	var driverOpts []driver.WorldDriverOpt
	if min, max, err := cfg.World.tickBounds(); err == nil && min > 0 && max > 0 {
		driverOpts = append(driverOpts, driver.WithTickInterval(min, max))
	}
	worldDriver := driver.NewWorldDriver([]driver.Manager{
		driver.NewGhostManager(engine, pub),
	}, driverOpts...)

	// Create a worker list
	return service.WorkerList{
		"nats":      natsServer,
		"persister": saver,
		"driver":    worldDriver,
		"listeners": &listeners,
	}, nil
}
