package engine

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/piwi3910/nestcore/internal/ga"
	"github.com/piwi3910/nestcore/internal/greedy"
	"github.com/piwi3910/nestcore/internal/nfpcache"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/piwi3910/nestcore/internal/sheet"
)

// SheetResult is a finished sheet's placement snapshot: config the sheet was
// built with, plus every part placed on it.
type SheetResult struct {
	Width  float64
	Height float64
	Margin float64
	Gap    float64
	Placed []part.Placed
}

// PlacedArea sums the area of every part placed on the sheet.
func (s SheetResult) PlacedArea() float64 {
	var total float64
	for _, p := range s.Placed {
		total += p.Shape.Area()
	}
	return total
}

// Utilization returns PlacedArea over the usable (margin-shrunk) area.
func (s SheetResult) Utilization() float64 {
	w := s.Width - 2*s.Margin
	h := s.Height - 2*s.Margin
	if w <= 0 || h <= 0 {
		return 0
	}
	return s.PlacedArea() / (w * h)
}

func toSheetResult(s *sheet.Sheet) SheetResult {
	return SheetResult{Width: s.Width, Height: s.Height, Margin: s.Margin, Gap: s.Gap, Placed: s.Placed}
}

// Result is the outcome of one Nest call.
type Result struct {
	Sheets         []SheetResult
	PlacedParts    int
	TotalParts     int
	AvgUtilization float64
	TimeSeconds    float64
	ModeUsed       Mode
	Diagnostics    []string
}

// Engine is the nesting façade: a Config plus the callbacks a caller
// observes a run with.
type Engine struct {
	Config   Config
	Progress ProgressFunc
	Cancel   *atomic.Bool
}

// New returns an Engine for cfg.
func New(cfg Config) *Engine {
	return &Engine{Config: cfg}
}

func (e *Engine) cancelled() bool {
	return e.Cancel != nil && e.Cancel.Load()
}

func (e *Engine) report(percent int, message string) {
	if e.Config.VerboseLogging {
		log.Printf("engine: %s", message)
	}
	if e.Progress != nil {
		e.Progress(percent, message)
	}
}

// expand turns each template into RequiredCount independent unit instances,
// normalized so every shape's bounding box starts at the origin.
func expand(templates []part.Template) []part.Template {
	var units []part.Template
	for _, t := range templates {
		units = append(units, t.Normalize().Expand()...)
	}
	return units
}

// chooseMode implements the Auto dispatch rule: batches of at most 5 parts,
// or batches where every part has at most 8 vertices, run Fast; anything
// more is handed to Optimal.
func chooseMode(units []part.Template) Mode {
	if len(units) <= autoFastMaxParts {
		return ModeFast
	}
	for _, u := range units {
		if u.Shape.N() > autoFastMaxVertices {
			return ModeOptimal
		}
	}
	return ModeFast
}

// Nest expands templates, resolves Auto to a concrete mode if needed, and
// nests the resulting units onto as many sheets as required.
func (e *Engine) Nest(templates []part.Template) Result {
	start := time.Now()
	units := expand(templates)

	mode := e.Config.Mode
	if mode == ModeAuto {
		mode = chooseMode(units)
	}
	e.report(0, fmt.Sprintf("nesting %d parts in %s mode", len(units), mode))

	shared := nfpcache.New()
	var sheets []SheetResult
	var diagnostics []string

	if mode == ModeFast {
		sheets, diagnostics = e.runFast(units, shared)
	} else {
		sheets, diagnostics = e.runOptimal(units, shared)
	}

	placed := 0
	var utilSum float64
	for _, s := range sheets {
		placed += len(s.Placed)
		utilSum += s.Utilization()
	}
	avgUtil := 0.0
	if len(sheets) > 0 {
		avgUtil = utilSum / float64(len(sheets))
	}

	e.report(100, "nesting complete")

	return Result{
		Sheets:         sheets,
		PlacedParts:    placed,
		TotalParts:     len(units),
		AvgUtilization: avgUtil,
		TimeSeconds:    time.Since(start).Seconds(),
		ModeUsed:       mode,
		Diagnostics:    diagnostics,
	}
}

func (e *Engine) runFast(units []part.Template, cache *nfpcache.Cache) ([]SheetResult, []string) {
	res := greedy.Pack(units, e.Config.SheetWidth, e.Config.SheetHeight, e.Config.Margin, e.Config.Gap, e.Config.Angles, cache)
	out := make([]SheetResult, len(res.Sheets))
	for i, s := range res.Sheets {
		out[i] = toSheetResult(s)
	}
	diagnostics := res.Diagnostics
	if len(res.Unplaced) > 0 {
		diagnostics = append(diagnostics, fmt.Sprintf("engine: %d parts could not be placed on any sheet", len(res.Unplaced)))
	}
	return out, diagnostics
}

// runOptimal fills one sheet at a time: each sheet's unplaced remainder is
// handed to the GA as a fresh batch, the winning chromosome's order/angles
// are applied via FindBestPlacement, and whatever the GA leaves unplaced
// carries forward to the next sheet. An empty chromosome (ga.Run returns one
// only for an empty batch) falls back to Greedy for the remainder; a sheet
// that places nothing ends the run with a diagnostic.
func (e *Engine) runOptimal(units []part.Template, shared *nfpcache.Cache) ([]SheetResult, []string) {
	remaining := append([]part.Template(nil), units...)
	var sheets []SheetResult
	var diagnostics []string

	tmpl := ga.SheetTemplate{
		Width:  e.Config.SheetWidth,
		Height: e.Config.SheetHeight,
		Margin: e.Config.Margin,
		Gap:    e.Config.Gap,
	}

	for len(remaining) > 0 {
		if e.cancelled() {
			diagnostics = append(diagnostics, "engine: cancelled before all parts were nested")
			break
		}

		gaCfg := e.Config.GA
		gaCfg.AllowedAngles = e.Config.Angles
		gaCfg.Cancel = e.Cancel
		sheetNum := len(sheets) + 1
		gaCfg.OnProgress = func(gen int, fitness float64) {
			e.report(-1, fmt.Sprintf("sheet %d: generation %d fitness %.4f", sheetNum, gen, fitness))
		}

		best, islandCache := ga.Run(remaining, tmpl, gaCfg)
		islandCache.MergeInto(shared)

		if len(best.Order) == 0 {
			res := greedy.Pack(remaining, tmpl.Width, tmpl.Height, tmpl.Margin, tmpl.Gap, e.Config.Angles, shared)
			for _, gs := range res.Sheets {
				sheets = append(sheets, toSheetResult(gs))
			}
			diagnostics = append(diagnostics, "engine: genetic algorithm returned no placement, falling back to greedy")
			diagnostics = append(diagnostics, res.Diagnostics...)
			if len(res.Unplaced) > 0 {
				diagnostics = append(diagnostics, fmt.Sprintf("engine: %d parts could not be placed on any sheet", len(res.Unplaced)))
			}
			break
		}

		s := sheet.New(tmpl.Width, tmpl.Height, tmpl.Margin, tmpl.Gap)
		used := make(map[int]bool, len(best.Order))
		for i, idx := range best.Order {
			tpl := remaining[idx]
			pos, angle, ok := s.FindBestPlacement(tpl, []float64{best.Angles[i]}, shared)
			if !ok {
				continue
			}
			s.Placed = append(s.Placed, tpl.Place(pos, angle))
			used[idx] = true
		}

		if len(used) == 0 {
			diagnostics = append(diagnostics, "engine: a sheet placed nothing during optimal nesting, stopping")
			break
		}

		sheets = append(sheets, toSheetResult(s))

		var next []part.Template
		for i, tpl := range remaining {
			if !used[i] {
				next = append(next, tpl)
			}
		}
		remaining = next
	}

	return sheets, diagnostics
}
