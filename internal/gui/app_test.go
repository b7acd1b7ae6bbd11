package gui

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/effects"
	"github.com/san-kum/livebg/internal/registry"
	"github.com/san-kum/livebg/internal/session"
)

func TestDeliverGivesUpWhenDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan loaded) // nobody reads

	result := make(chan bool, 1)
	go func() { result <- deliver(ctx, done, loaded{name: "livebg"}) }()
	cancel()

	select {
	case ok := <-result:
		if ok {
			t.Error("expected delivery to be abandoned")
		}
	case <-time.After(time.Second):
		t.Fatal("deliver blocked after the context was cancelled")
	}
}

func TestDeliverHandsOff(t *testing.T) {
	done := make(chan loaded, 1)
	if !deliver(context.Background(), done, loaded{name: "fire"}) {
		t.Fatal("expected delivery")
	}
	if l := <-done; l.name != "fire" {
		t.Errorf("expected fire, got %s", l.name)
	}
}

func TestReselectActiveClearsLoadingStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := registry.New()
	reg.RegisterAll(effects.Builtins(1))
	sess := session.New(reg, session.WithSurface(effect.NewSurface(320, 200, 1)))
	if err := sess.Select(ctx, "livebg", time.Now()); err != nil {
		t.Fatal(err)
	}

	a := &App{ctx: ctx, sess: sess, loader: reg, done: make(chan loaded, 4)}
	a.selectEffect("fire")
	if a.status != "loading fire" {
		t.Fatalf("expected loading status, got %q", a.status)
	}
	a.selectEffect("livebg")
	if a.status != "" || a.failed {
		t.Errorf("expected status cleared, got %q", a.status)
	}
	if sess.State() != session.Active || sess.ActiveName() != "livebg" {
		t.Errorf("expected livebg active, got %s %q", sess.State(), sess.ActiveName())
	}
}
