// Command nest is the command-line front end for the nesting engine: it
// loads a part batch from DXF or XLSX, runs the engine, and writes a PDF
// work order plus per-sheet XML layouts.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/nestcore/internal/engine"
	"github.com/piwi3910/nestcore/internal/loader"
	"github.com/piwi3910/nestcore/internal/lxdexport"
	"github.com/piwi3910/nestcore/internal/part"
	"github.com/piwi3910/nestcore/internal/techcard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nest",
		Short: "Nest sheet-metal parts onto stock sheets",
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		input                string
		outDir               string
		sheetWidth           float64
		sheetHeight          float64
		margin               float64
		gap                  float64
		mode                 string
		cuttingSpeedMmPerSec float64
		verbose              bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a part batch, nest it, and write a work order",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := loadInput(input)
			if err != nil {
				return err
			}

			cfg := engine.DefaultConfig()
			cfg.SheetWidth = sheetWidth
			cfg.SheetHeight = sheetHeight
			cfg.Margin = margin
			cfg.Gap = gap
			cfg.CuttingSpeedMmPerSec = cuttingSpeedMmPerSec
			cfg.VerboseLogging = verbose
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			cfg.Mode = m

			eng := engine.New(cfg)
			res := eng.Nest(templates)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			pdfPath := filepath.Join(outDir, "workorder.pdf")
			if err := techcard.RenderPDF(pdfPath, res, cfg.CuttingSpeedMmPerSec); err != nil {
				return fmt.Errorf("render work order: %w", err)
			}
			if err := lxdexport.WriteSheets(outDir, res); err != nil {
				return fmt.Errorf("write sheet layouts: %w", err)
			}

			fmt.Printf("mode=%s sheets=%d placed=%d/%d avg_utilization=%.1f%% time=%.2fs\n",
				res.ModeUsed, len(res.Sheets), res.PlacedParts, res.TotalParts, res.AvgUtilization*100, res.TimeSeconds)
			for _, d := range res.Diagnostics {
				fmt.Println("warning:", d)
			}
			fmt.Println("wrote", pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to a DXF drawing or XLSX cut list (required)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "./nest-output", "output directory for the work order and sheet layouts")
	cmd.Flags().Float64Var(&sheetWidth, "sheet-width", 1000, "stock sheet width in mm")
	cmd.Flags().Float64Var(&sheetHeight, "sheet-height", 1000, "stock sheet height in mm")
	cmd.Flags().Float64Var(&margin, "margin", 0, "sheet edge margin in mm")
	cmd.Flags().Float64Var(&gap, "gap", 3, "minimum gap between parts in mm")
	cmd.Flags().StringVar(&mode, "mode", "auto", "nesting mode: fast, optimal, or auto")
	cmd.Flags().Float64Var(&cuttingSpeedMmPerSec, "cutting-speed", 0, "cutting speed in mm/s, for cut-time estimates")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine progress to stderr")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func parseMode(s string) (engine.Mode, error) {
	switch s {
	case "fast":
		return engine.ModeFast, nil
	case "optimal":
		return engine.ModeOptimal, nil
	case "auto":
		return engine.ModeAuto, nil
	default:
		return engine.ModeAuto, fmt.Errorf("unknown mode %q (want fast, optimal, or auto)", s)
	}
}

func loadInput(path string) ([]part.Template, error) {
	var res loader.Result
	switch ext := filepath.Ext(path); ext {
	case ".dxf":
		res = loader.LoadDXF(path)
	case ".xlsx":
		res = loader.LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input file extension %q (want .dxf or .xlsx)", ext)
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("failed to load %s: %v", path, res.Errors)
	}
	return res.Templates, nil
}
