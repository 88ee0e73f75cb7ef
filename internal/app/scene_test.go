package app

import (
	"testing"

	"github.com/dshills/mouseproc/internal/config"
	"github.com/dshills/mouseproc/internal/input/mouse"
	"github.com/dshills/mouseproc/internal/router"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Objects = []config.ObjectConfig{
		{ID: "station", Type: "/area/station"},
		{ID: "floor", Type: "/turf/floor", Loc: "station", X: 1, Y: 1, Z: 1},
		{ID: "wall", Type: "/turf/wall", X: 2, Y: 1, Z: 1},
		{ID: "lamp", Type: "/obj/lamp", Name: "desk lamp", Loc: "floor", MouseEvents: "enter|exit"},
		{ID: "table", Type: "/obj/table", Loc: "wall"},
		{ID: "player", Type: "/mob/player", Loc: "floor"},
		{ID: "quest", Type: "/datum/quest"},
	}
	cfg.Connections = []config.ConnectionConfig{
		{ID: "alice", Mob: "player"},
		{ID: "bob", Sees: []string{"table"}},
		{ID: "guest", Detached: true},
	}
	return cfg
}

func TestBuildScene(t *testing.T) {
	s, err := BuildScene(testConfig())
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}

	lamp, ok := s.Object("lamp")
	if !ok || lamp.Name() != "desk lamp" || lamp.Type() != "/obj/lamp" {
		t.Fatalf("lamp = %v", lamp)
	}
	floor, _ := s.Object("floor")
	if s.World.Loc(lamp) != floor {
		t.Errorf("lamp loc = %v, want floor", s.World.Loc(lamp))
	}
	station, _ := s.Object("station")
	if s.World.Loc(floor) != station {
		t.Errorf("floor area = %v, want station", s.World.Loc(floor))
	}
	if got := s.World.MouseEvents(lamp); got != mouse.EventEnter|mouse.EventExit {
		t.Errorf("lamp mouse events = %s", got)
	}
	if turf, ok := s.World.TurfAt(2, 1, 1); !ok || s.Label(turf) != "wall" {
		t.Errorf("TurfAt(2,1,1) = %v, %v", turf, ok)
	}

	alice, ok := s.Connection("alice")
	if !ok {
		t.Fatal("alice missing")
	}
	if s.Label(alice.Mob()) != "player" || s.Label(alice.Client()) != "client:alice" {
		t.Errorf("alice mob = %s, client = %s", s.Label(alice.Mob()), s.Label(alice.Client()))
	}
	// Connections without a sees list hold references to everything.
	for _, id := range s.ObjectIDs() {
		if res := s.World.Resolve(alice, router.ClientRef(id)); res.Status == router.NotFound {
			t.Errorf("alice cannot resolve %s", id)
		}
	}

	bob, _ := s.Connection("bob")
	if res := s.World.Resolve(bob, "lamp"); res.Status != router.NotFound {
		t.Errorf("bob resolves lamp with status %s, want not found", res.Status)
	}
	if res := s.World.Resolve(bob, "table"); res.Status != router.Found {
		t.Errorf("bob resolves table with status %s, want found", res.Status)
	}
	if bob.Mob() != nil {
		t.Errorf("bob mob = %v, want nil", bob.Mob())
	}

	guest, _ := s.Connection("guest")
	if guest.Client() != nil {
		t.Errorf("guest client = %v, want nil", guest.Client())
	}

	if s.StatRef("lamp") != lamp.Ref() {
		t.Errorf("StatRef(lamp) = %s, want %s", s.StatRef("lamp"), lamp.Ref())
	}
	if s.StatRef("nope") != "nope" {
		t.Errorf("StatRef(nope) = %s, want nope", s.StatRef("nope"))
	}
	if s.Label(nil) != "" {
		t.Errorf("Label(nil) = %q, want empty", s.Label(nil))
	}
}

func TestBuildSceneErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"duplicate turf", func(c *config.Config) {
			c.Objects = append(c.Objects, config.ObjectConfig{ID: "floor2", Type: "/turf/floor", X: 1, Y: 1, Z: 1})
		}},
		{"immovable placed", func(c *config.Config) {
			c.Objects = append(c.Objects, config.ObjectConfig{ID: "area2", Type: "/area", Loc: "floor"})
		}},
		{"detached with mob", func(c *config.Config) {
			c.Connections[2].Mob = "player"
		}},
		{"duplicate connection", func(c *config.Config) {
			c.Connections = append(c.Connections, config.ConnectionConfig{ID: "alice"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := BuildScene(cfg); err == nil {
				t.Error("BuildScene returned nil error")
			}
		})
	}
}
