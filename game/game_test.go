package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newHeadless(t *testing.T, outputDir string) *Game {
	t.Helper()
	g, err := NewGame(Options{Seed: 7, Headless: true, OutputDir: outputDir})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestHeadlessBuildsAfterLayoutSettles(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	// Frame 2 is rejected as not ready, the settled layout is built on frame 4
	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
		if g.Set() != nil {
			t.Fatalf("set built on frame %d before the layout settled", g.Frame())
		}
	}
	g.UpdateHeadless()

	set := g.Set()
	if set == nil {
		t.Fatal("no set after the layout settled")
	}
	if set.Version != 2 {
		t.Errorf("set version = %d, want 2", set.Version)
	}
	if set.Groups() != 3 || set.Len() != 9000 {
		t.Errorf("set has %d particles in %d groups, want 9000 in 3", set.Len(), set.Groups())
	}

	// Progress 0: every particle sits on its start point
	b := g.Batch()
	for i := 0; i < set.Len(); i += 97 {
		if got, want := b.Output(i).Position, set.At(i).Start; got != want {
			t.Fatalf("particle %d at %v, want start %v", i, got, want)
		}
	}
}

func TestHeadlessDrawsFromTheBuildFrame(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
		if g.FrameOutput().Draw || g.drawn {
			t.Fatalf("frame %d drew before any set was built", g.Frame())
		}
	}

	g.UpdateHeadless()
	if !g.FrameOutput().Draw {
		t.Error("build frame reports nothing to draw")
	}
	if !g.drawn {
		t.Error("build frame did not evaluate particles")
	}
}

func TestHeadlessIdleFadeAndRecovery(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	// 1s at 60fps without movement is past hold + fade
	for i := 0; i < 64; i++ {
		g.UpdateHeadless()
	}
	if out := g.FrameOutput(); out.Opacity != 0 {
		t.Fatalf("opacity = %v after idling, want 0", out.Opacity)
	}
	if g.drawn {
		t.Error("idle frame still evaluated particles")
	}

	g.ScrollTo(0.5)
	g.UpdateHeadless()
	if out := g.FrameOutput(); out.IdleFade != 1 || out.Opacity != 1 {
		t.Errorf("after movement idle/opacity = %v/%v, want 1/1", out.IdleFade, out.Opacity)
	}
}

func TestHeadlessResizeRebuilds(t *testing.T) {
	g := newHeadless(t, "")
	defer g.Unload()

	for i := 0; i < 4; i++ {
		g.UpdateHeadless()
	}
	before := g.Set()
	if before == nil {
		t.Fatal("no set before resize")
	}

	g.Resize(900, 700, 2)
	for i := 0; i < 6; i++ {
		g.UpdateHeadless()
	}
	after := g.Set()
	if after == before || after.Version <= before.Version {
		t.Fatalf("set not rebuilt after resize (version %d -> %d)", before.Version, after.Version)
	}
	if after.Stage.Width != 900 || after.Stage.Height != 700 {
		t.Errorf("rebuilt stage = %+v, want 900x700", after.Stage)
	}
}

func TestHeadlessWritesEvents(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, dir)
	for i := 0; i < 6; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "rebuilds.csv"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, kind := range []string{"resize", "not_ready", "rebuild"} {
		if !strings.Contains(text, "\n"+kind+",") {
			t.Errorf("rebuilds.csv has no %s row:\n%s", kind, text)
		}
	}
}
