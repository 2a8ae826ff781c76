package scenes

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/entsync/network"
	"github.com/automoto/entsync/reconcile"
	"github.com/automoto/entsync/session"
	"github.com/automoto/entsync/systems"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ErrDisconnected is returned by Update once the connection is gone.
var ErrDisconnected = errors.New("disconnected from server")

// Connection is the part of *network.Client the scene watches.
type Connection interface {
	State() network.ClientState
	LastError() error
	ServerName() string
	TickRate() int
	EntityCount() int
}

// NetworkedScene mirrors one session's entities into a donburi world.
type NetworkedScene struct {
	ecsWorld    *ecs.ECS
	conn        Connection
	session     *session.Session
	dt          time.Duration
	hudInterval int
	once        sync.Once
	syncErr     error
	announced   bool
}

func NewNetworkedScene(conn Connection, sess *session.Session, dt time.Duration, hudInterval int) *NetworkedScene {
	return &NetworkedScene{
		conn:        conn,
		session:     sess,
		dt:          dt,
		hudInterval: hudInterval,
	}
}

// Update runs one frame. It returns ErrDisconnected when the connection has
// dropped, or the session error that stopped synchronization.
func (ns *NetworkedScene) Update() error {
	ns.once.Do(ns.configure)

	switch state := ns.conn.State(); state {
	case network.StateDisconnected:
		return ErrDisconnected
	case network.StateError:
		return fmt.Errorf("%w: %v", ErrDisconnected, ns.conn.LastError())
	}

	ns.ecsWorld.Update()
	if ns.syncErr != nil {
		return ns.syncErr
	}
	return ns.checkRoster()
}

// checkRoster compares the first synchronized generation with the roster the
// server announced. Under a strict roster a mismatch is fatal.
func (ns *NetworkedScene) checkRoster() error {
	if ns.announced || ns.session.State() != reconcile.Initialized {
		return nil
	}
	ns.announced = true

	want := ns.conn.EntityCount()
	got := len(ns.session.Entities())
	log.Printf("[networked] synced with %q (server tick %d/s): %d entities",
		ns.conn.ServerName(), ns.conn.TickRate(), got)
	if want == 0 || want == got {
		return nil
	}
	if ns.session.StrictRoster() {
		ns.syncErr = &reconcile.SizeMismatchError{Want: want, Got: got}
		return ns.syncErr
	}
	log.Printf("[networked] server announced %d entities, first snapshot carried %d", want, got)
	return nil
}

// World exposes the mirrored world.
func (ns *NetworkedScene) World() donburi.World {
	ns.once.Do(ns.configure)
	return ns.ecsWorld.World
}

func (ns *NetworkedScene) configure() {
	ns.ecsWorld = ecs.NewECS(donburi.NewWorld())

	ns.ecsWorld.AddSystem(systems.NewNetSyncSystem(ns.session, ns.dt, func(err error) {
		log.Printf("[networked] sync stopped: %v", err)
		ns.syncErr = err
	}))
	ns.ecsWorld.AddSystem(systems.NewNetMirrorSystem(ns.session))
	ns.ecsWorld.AddSystem(systems.NewNetHUDSystem(ns.session, ns.hudInterval, nil))
}
