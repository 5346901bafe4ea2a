// Command calibration_report prints the preview-vs-batch Delta E for every
// preset, intensity and reference band. Useful when tuning the preset
// catalog: any gated sample at or above the threshold will fail the
// calibration gate.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ourbooth/booth/pkg/filter"
)

func main() {
	var all bool
	flag.BoolVar(&all, "all", false, "include ungated samples in the report")
	flag.Parse()

	fmt.Printf("Calibration threshold: %.1f (CIE76)\n\n", filter.DeltaEThreshold)
	fmt.Printf("%-10s %-9s %-6s %-6s %8s  %s\n", "PRESET", "INTENSITY", "BAND", "GATED", "DELTA-E", "STATUS")

	worst := 0.0
	failures := 0
	for _, preset := range filter.Presets() {
		samples := filter.Calibrate(preset)
		for _, sample := range samples {
			if !sample.Gated && !all {
				continue
			}

			status := "ok"
			if sample.Gated && sample.DeltaE >= filter.DeltaEThreshold {
				status = "FAIL"
				failures++
			}
			if sample.Gated && sample.DeltaE > worst {
				worst = sample.DeltaE
			}

			fmt.Printf("%-10s %9.0f %-6s %-6v %8.3f  %s\n",
				preset.ID, sample.Intensity, sample.Band, sample.Gated, sample.DeltaE, status)
		}
		fmt.Println()
	}

	fmt.Printf("Worst gated Delta E: %.3f\n", worst)
	if failures > 0 {
		fmt.Printf("%d gated samples exceed the threshold\n", failures)
		os.Exit(1)
	}
	fmt.Println("All gated samples within threshold")
}
