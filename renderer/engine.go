package renderer

import (
	_ "embed"
	"errors"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/morph"
	"github.com/pthm-cable/dissolve/targets"
)

//go:embed shaders/particles.vs
var particleVS string

//go:embed shaders/particles.fs
var particleFS string

// ErrShaderCompile is returned when the particle program fails to compile or link.
// The engine is unusable afterwards; a new engine must be created.
var ErrShaderCompile = errors.New("renderer: particle shader failed to compile")

// particleUniforms holds the uniform locations of the particle program.
type particleUniforms struct {
	progress, time, viewport, ambientOffset int32
	groupCount, groupStart, groupEnd        int32
	burstCenter, burstRadius                int32
	burstRange, scatterRange, destRange     int32
	preMix, driftAmplitude, driftSpeed      int32
	pointSize, settledSize, alphaFloor      int32
	proximityRadius, auraScale, auraShrink  int32
}

// ParticleEngine owns the particle mesh, the shader program and the draw call.
// Attribute buffers are replaced wholesale when the target set version changes;
// position is evaluated per vertex on the GPU.
type ParticleEngine struct {
	shader   rl.Shader
	material rl.Material
	locs     particleUniforms

	mesh     rl.Mesh
	uploaded bool
	version  uint64
	count    int

	vertices vertexData

	// Scratch for array uniforms
	centers []float32
}

// NewParticleEngine compiles the particle program. Must be called after the
// window (GL context) exists.
func NewParticleEngine() (*ParticleEngine, error) {
	shader := rl.LoadShaderFromMemory(particleVS, particleFS)
	// raylib falls back to its default program when compilation or linking fails
	if shader.ID == 0 || shader.ID == rl.GetShaderIdDefault() {
		slog.Error("particle shader unavailable", "shader_id", shader.ID)
		return nil, ErrShaderCompile
	}

	e := &ParticleEngine{
		shader:   shader,
		material: rl.LoadMaterialDefault(),
		centers:  make([]float32, 2*morph.MaxGroups),
	}
	e.material.Shader = shader

	loc := func(name string) int32 { return rl.GetShaderLocation(shader, name) }
	e.locs = particleUniforms{
		progress:        loc("progress"),
		time:            loc("time"),
		viewport:        loc("viewport"),
		ambientOffset:   loc("ambientOffset"),
		groupCount:      loc("groupCount"),
		groupStart:      loc("groupStart"),
		groupEnd:        loc("groupEnd"),
		burstCenter:     loc("burstCenter"),
		burstRadius:     loc("burstRadius"),
		burstRange:      loc("burstRange"),
		scatterRange:    loc("scatterRange"),
		destRange:       loc("destRange"),
		preMix:          loc("preMix"),
		driftAmplitude:  loc("driftAmplitude"),
		driftSpeed:      loc("driftSpeed"),
		pointSize:       loc("pointSize"),
		settledSize:     loc("settledSize"),
		alphaFloor:      loc("alphaFloor"),
		proximityRadius: loc("proximityRadius"),
		auraScale:       loc("auraScale"),
		auraShrink:      loc("auraShrink"),
	}
	if e.locs.progress < 0 || e.locs.viewport < 0 {
		slog.Error("particle shader missing uniforms", "progress", e.locs.progress, "viewport", e.locs.viewport)
		e.Unload()
		return nil, ErrShaderCompile
	}

	slog.Info("particle engine ready", "shader_id", shader.ID)
	return e, nil
}

// Ready reports whether buffers are populated and a draw would render.
func (e *ParticleEngine) Ready() bool {
	return e.uploaded && e.count > 0
}

// Version returns the target set version of the uploaded buffers (0 when none).
func (e *ParticleEngine) Version() uint64 {
	return e.version
}

// Sync uploads set when its version differs from the uploaded one. The old
// mesh is released first; buffers are never patched in place.
func (e *ParticleEngine) Sync(set *targets.Set) {
	if set == nil || set.Version == e.version {
		return
	}
	e.releaseMesh()

	e.vertices.pack(set)
	n := e.vertices.vertexCount()
	if n == 0 {
		e.version = set.Version
		return
	}

	v := &e.vertices
	e.mesh = rl.Mesh{
		VertexCount:   int32(n),
		TriangleCount: int32(n / 3),
		Vertices:      &v.Positions[0],
		Texcoords:     &v.Texcoords[0],
		Texcoords2:    &v.Texcoords2[0],
		Normals:       &v.Normals[0],
		Tangents:      &v.Tangents[0],
		Colors:        &v.Colors[0],
	}
	rl.UploadMesh(&e.mesh, false)

	// The GPU owns the data now. Drop the Go pointers so the mesh can be
	// passed back to C on every draw.
	e.mesh.Vertices = nil
	e.mesh.Texcoords = nil
	e.mesh.Texcoords2 = nil
	e.mesh.Normals = nil
	e.mesh.Tangents = nil
	e.mesh.Colors = nil

	e.uploaded = e.mesh.VaoID != 0
	e.count = set.Len()
	e.version = set.Version
	slog.Debug("particle buffers uploaded", "version", set.Version, "particles", e.count, "vertices", n)
}

// Draw sets the frame uniforms and renders every particle in one call with
// premultiplied alpha and no depth test. It returns false and draws nothing
// when no buffers are populated.
func (e *ParticleEngine) Draw(u *morph.Uniforms) bool {
	if !e.Ready() {
		return false
	}
	e.setUniforms(u)

	rl.DisableDepthTest()
	rl.DisableBackfaceCulling()
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	rl.DrawMesh(e.mesh, e.material, rl.MatrixIdentity())
	rl.EndBlendMode()
	rl.EnableBackfaceCulling()
	return true
}

func (e *ParticleEngine) setUniforms(u *morph.Uniforms) {
	s, l := e.shader, &e.locs
	f := func(loc int32, v float32) {
		rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
	}
	v2 := func(loc int32, x, y float32) {
		rl.SetShaderValue(s, loc, []float32{x, y}, rl.ShaderUniformVec2)
	}

	f(l.progress, u.Progress)
	f(l.time, u.Time)
	v2(l.viewport, u.Viewport.Width, u.Viewport.Height)
	v2(l.ambientOffset, u.AmbientOffset.X, u.AmbientOffset.Y)

	f(l.groupCount, float32(u.Groups))
	rl.SetShaderValueV(s, l.groupStart, u.GroupStart[:], rl.ShaderUniformFloat, morph.MaxGroups)
	rl.SetShaderValueV(s, l.groupEnd, u.GroupEnd[:], rl.ShaderUniformFloat, morph.MaxGroups)
	for g, c := range u.BurstCenters {
		e.centers[2*g], e.centers[2*g+1] = c.X, c.Y
	}
	rl.SetShaderValueV(s, l.burstCenter, e.centers, rl.ShaderUniformVec2, morph.MaxGroups)
	rl.SetShaderValueV(s, l.burstRadius, u.BurstRadii[:], rl.ShaderUniformFloat, morph.MaxGroups)

	v2(l.burstRange, u.Burst.Start, u.Burst.End)
	v2(l.scatterRange, u.Scatter.Start, u.Scatter.End)
	v2(l.destRange, u.Destination.Start, u.Destination.End)
	f(l.preMix, u.PreMix)
	f(l.driftAmplitude, u.DriftAmplitude)
	f(l.driftSpeed, u.DriftSpeed)

	p := u.Params
	f(l.pointSize, p.PointSize)
	f(l.settledSize, p.SettledSize)
	f(l.alphaFloor, p.AlphaFloor)
	f(l.proximityRadius, p.ProximityRadius)
	f(l.auraScale, p.AuraScale)
	f(l.auraShrink, p.AuraShrink)
}

func (e *ParticleEngine) releaseMesh() {
	if e.uploaded {
		rl.UnloadMesh(&e.mesh)
	}
	e.mesh = rl.Mesh{}
	e.uploaded = false
	e.count = 0
	e.version = 0
}

// Unload releases the mesh, the material and the shader program.
func (e *ParticleEngine) Unload() {
	e.releaseMesh()
	// UnloadMaterial also unloads the non-default shader it carries
	if e.material.Maps != nil {
		rl.UnloadMaterial(e.material)
		e.material = rl.Material{}
	} else if e.shader.ID != 0 {
		rl.UnloadShader(e.shader)
	}
	e.shader = rl.Shader{}
}

// GPUBytes returns the size of the uploaded vertex data.
func (e *ParticleEngine) GPUBytes() int {
	if !e.uploaded {
		return 0
	}
	v := &e.vertices
	floats := len(v.Positions) + len(v.Texcoords) + len(v.Texcoords2) + len(v.Normals) + len(v.Tangents)
	return floats*4 + len(v.Colors)
}
