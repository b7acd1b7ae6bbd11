// Package wasmfx loads point-cloud effects compiled to WebAssembly.
//
// A module must export the lb_* capability functions with the signatures
// below; everything crossing the boundary is an i32 or an f32.
//
//	lb_set_canvas(i32, i32)   lb_set_density(f32)   lb_set_speed(f32)
//	lb_set_zoom(f32)          lb_set_zoom_auto(i32) lb_step(f32)
//	lb_get_point_count() i32  lb_get_x(i32) f32     lb_get_y(i32) f32
//	lb_reset()
//
// Modules are instantiated with WASI preview1 available. A reactor module
// exporting _initialize has it run before the first call.
package wasmfx

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/logging"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	fnSetCanvas   = "lb_set_canvas"
	fnSetDensity  = "lb_set_density"
	fnSetSpeed    = "lb_set_speed"
	fnSetZoom     = "lb_set_zoom"
	fnSetZoomAuto = "lb_set_zoom_auto"
	fnStep        = "lb_step"
	fnPointCount  = "lb_get_point_count"
	fnGetX        = "lb_get_x"
	fnGetY        = "lb_get_y"
	fnReset       = "lb_reset"
)

// Exports lists the functions a module must provide.
var Exports = []string{
	fnSetCanvas, fnSetDensity, fnSetSpeed, fnSetZoom, fnSetZoomAuto,
	fnStep, fnPointCount, fnGetX, fnGetY, fnReset,
}

var _ effect.Backend = (*Module)(nil)

// Module is an instantiated wasm effect bound to its capability exports.
type Module struct {
	name string
	ctx  context.Context
	rt   wazero.Runtime
	mod  api.Module
	fns  map[string]api.Function
	err  error
}

// Load compiles and instantiates bin under name.
func Load(ctx context.Context, name string, bin []byte) (*Module, error) {
	rt := wazero.NewRuntime(ctx)
	m, err := instantiate(ctx, rt, name, bin)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return m, nil
}

func instantiate(ctx context.Context, rt wazero.Runtime, name string, bin []byte) (*Module, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return nil, fmt.Errorf("%w: %s: wasi: %v", effect.ErrLoadFailed, name, err)
	}

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", effect.ErrLoadFailed, name, err)
	}

	defs := compiled.ExportedFunctions()
	for _, fn := range Exports {
		if _, ok := defs[fn]; !ok {
			return nil, fmt.Errorf("%w: %s: %s", effect.ErrMissingExport, name, fn)
		}
	}

	cfg := wazero.NewModuleConfig().WithName(name)
	if _, ok := defs["_initialize"]; ok {
		cfg = cfg.WithStartFunctions("_initialize")
	} else {
		cfg = cfg.WithStartFunctions()
	}

	mod, err := rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", effect.ErrLoadFailed, name, err)
	}

	m := &Module{
		name: name,
		ctx:  context.Background(),
		rt:   rt,
		mod:  mod,
		fns:  make(map[string]api.Function, len(Exports)),
	}
	for _, fn := range Exports {
		m.fns[fn] = mod.ExportedFunction(fn)
	}
	return m, nil
}

// Loader returns an effect.Loader that reads and instantiates the file at path.
func Loader(name, path string) effect.Loader {
	return func(ctx context.Context) (effect.Backend, error) {
		bin, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", effect.ErrLoadFailed, name, err)
		}
		return Load(ctx, name, bin)
	}
}

// Discover registers every *.wasm file in dir under its base name.
func Discover(dir string) (map[string]effect.Loader, error) {
	if dir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.wasm"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	loaders := make(map[string]effect.Loader, len(paths))
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".wasm")
		loaders[name] = Loader(name, p)
	}
	return loaders, nil
}

// Err returns the first trap raised by a capability call, if any.
func (m *Module) Err() error { return m.err }

// Close releases the runtime. Instances normally live for the whole process.
func (m *Module) Close() error {
	return m.rt.Close(m.ctx)
}

func (m *Module) call(fn string, args ...uint64) []uint64 {
	res, err := m.fns[fn].Call(m.ctx, args...)
	if err != nil {
		if m.err == nil {
			m.err = fmt.Errorf("wasmfx: %s: %s: %w", m.name, fn, err)
			logging.L().Warn("wasm effect trapped", "effect", m.name, "fn", fn, "err", err)
		}
		return nil
	}
	return res
}

func (m *Module) SetCanvas(width, height int32) {
	m.call(fnSetCanvas, api.EncodeI32(width), api.EncodeI32(height))
}

func (m *Module) SetDensity(d float32) { m.call(fnSetDensity, api.EncodeF32(d)) }
func (m *Module) SetSpeed(v float32)   { m.call(fnSetSpeed, api.EncodeF32(v)) }
func (m *Module) SetZoom(z float32)    { m.call(fnSetZoom, api.EncodeF32(z)) }
func (m *Module) Step(dt float32)      { m.call(fnStep, api.EncodeF32(dt)) }
func (m *Module) Reset()               { m.call(fnReset) }

func (m *Module) SetZoomAuto(on bool) {
	var flag int32
	if on {
		flag = 1
	}
	m.call(fnSetZoomAuto, api.EncodeI32(flag))
}

func (m *Module) PointCount() int32 {
	res := m.call(fnPointCount)
	if len(res) == 0 {
		return 0
	}
	return api.DecodeI32(res[0])
}

// X and Y report NaN when the call traps so the point is skipped.
func (m *Module) X(i int32) float32 { return m.coord(fnGetX, i) }
func (m *Module) Y(i int32) float32 { return m.coord(fnGetY, i) }

func (m *Module) coord(fn string, i int32) float32 {
	res := m.call(fn, api.EncodeI32(i))
	if len(res) == 0 {
		return float32(math.NaN())
	}
	return api.DecodeF32(res[0])
}
