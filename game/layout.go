package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/targets"
)

// LayoutChips places n chips in a centred row in the upper third of stage.
// Chips shrink to fit when the row is wider than the stage.
func LayoutChips(stage geometry.Size, n int, l config.LayoutConfig) []geometry.Rect {
	if n == 0 || stage.Empty() {
		return nil
	}
	w, h, gap := float32(l.ChipWidth), float32(l.ChipHeight), float32(l.ChipGap)

	margin := gap
	avail := stage.Width - 2*margin
	if row := float32(n)*w + float32(n-1)*gap; row > avail {
		scale := max(avail, 0) / row
		w, h, gap = w*scale, h*scale, gap*scale
	}

	row := float32(n)*w + float32(n-1)*gap
	x := (stage.Width - row) / 2
	y := stage.Height*0.3 - h/2

	rects := make([]geometry.Rect, n)
	for i := range rects {
		rects[i] = geometry.Rect{X: x + float32(i)*(w+gap), Y: y, Width: w, Height: h}
	}
	return rects
}

// LayoutButton centres the button horizontally in the lower part of stage.
func LayoutButton(stage geometry.Size, l config.LayoutConfig) geometry.RoundedRect {
	w := min(float32(l.ButtonWidth), stage.Width*0.8)
	h := float32(l.ButtonHeight)
	return geometry.RoundedRect{
		Rect:   geometry.Rect{X: (stage.Width - w) / 2, Y: stage.Height*0.78 - h/2, Width: w, Height: h},
		Radius: float32(l.ButtonRadius),
	}
}

// spawnLayout creates the chip, button and anchor entities.
func (g *Game) spawnLayout() {
	for i, label := range g.cfg.Layout.Labels {
		chip := components.Chip{Index: i, Text: label}
		g.chipMap.NewEntity(&chip, &components.Bounds{})
	}
	g.buttonMap.NewEntity(
		&components.Button{Radius: float32(g.cfg.Layout.ButtonRadius), Label: "Get started"},
		&components.Bounds{},
	)
	g.anchorMap.NewEntity(&components.Anchor{Parallax: 0.06})
}

// updateLayout lays every box out against stage. A box whose rect moves
// starts settling again; it reports as measured once its layout has held for
// settle_frames.
func (g *Game) updateLayout(stage geometry.Size, progress float32) {
	settle := g.cfg.Layout.SettleFrames
	rects := LayoutChips(stage, len(g.cfg.Layout.Labels), g.cfg.Layout)

	chips := g.chipFilter.Query()
	for chips.Next() {
		chip, b := chips.Get()
		if chip.Index < len(rects) {
			settleBounds(b, rects[chip.Index], settle)
		}
	}

	button := LayoutButton(stage, g.cfg.Layout)
	buttons := g.buttonFilter.Query()
	for buttons.Next() {
		btn, b := buttons.Get()
		btn.Radius = button.Radius
		settleBounds(b, button.Rect, settle)
	}

	anchors := g.anchorFilter.Query()
	for anchors.Next() {
		a := anchors.Get()
		a.Point = geometry.Point{
			X: stage.Width / 2,
			Y: stage.Height * (0.12 - a.Parallax*progress),
		}
	}
}

func settleBounds(b *components.Bounds, r geometry.Rect, settle int) {
	if r != b.Rect {
		b.Rect = r
		b.Age = 0
	} else {
		b.Age++
	}
	b.Measured = b.Age >= settle && !r.Empty()
}

// targetInput collects the measured layout into builder input. Unmeasured
// boxes are reported with an empty rect.
func (g *Game) targetInput(stage geometry.Size) targets.Input {
	in := targets.Input{
		Stage:    stage,
		Clusters: make([]targets.Cluster, len(g.cfg.Layout.Labels)),
	}

	chips := g.chipFilter.Query()
	for chips.Next() {
		chip, b := chips.Get()
		if chip.Index >= len(in.Clusters) {
			continue
		}
		c := targets.Cluster{ID: chip.Text}
		if b.Measured {
			c.Rect = b.Rect
		}
		in.Clusters[chip.Index] = c
	}

	buttons := g.buttonFilter.Query()
	for buttons.Next() {
		btn, b := buttons.Get()
		if b.Measured {
			in.Destination = &geometry.RoundedRect{Rect: b.Rect, Radius: btn.Radius}
		}
	}

	in.Reference = g.anchor()
	return in
}

// anchor returns the current ambient reference point.
func (g *Game) anchor() geometry.Point {
	var p geometry.Point
	anchors := g.anchorFilter.Query()
	for anchors.Next() {
		p = anchors.Get().Point
	}
	return p
}

// newLayoutWorld creates the ECS world and its mappers.
func newLayoutWorld() (*ecs.World, layoutMaps) {
	world := ecs.NewWorld()
	return world, layoutMaps{
		chipMap:      ecs.NewMap2[components.Chip, components.Bounds](world),
		chipFilter:   ecs.NewFilter2[components.Chip, components.Bounds](world),
		buttonMap:    ecs.NewMap2[components.Button, components.Bounds](world),
		buttonFilter: ecs.NewFilter2[components.Button, components.Bounds](world),
		anchorMap:    ecs.NewMap1[components.Anchor](world),
		anchorFilter: ecs.NewFilter1[components.Anchor](world),
	}
}

// layoutMaps holds the component mappers and filters of the layout world.
type layoutMaps struct {
	chipMap      *ecs.Map2[components.Chip, components.Bounds]
	chipFilter   *ecs.Filter2[components.Chip, components.Bounds]
	buttonMap    *ecs.Map2[components.Button, components.Bounds]
	buttonFilter *ecs.Filter2[components.Button, components.Bounds]
	anchorMap    *ecs.Map1[components.Anchor]
	anchorFilter *ecs.Filter1[components.Anchor]
}
