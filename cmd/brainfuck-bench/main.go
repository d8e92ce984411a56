//go:build bench

// Command brainfuck-bench measures proving and verification times over
// a set of reference programs and renders the results as an HTML chart.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	brainfuckzkvm "github.com/vybium/brainfuck-zkvm/pkg/brainfuck-zkvm"
)

type benchCase struct {
	name   string
	source string
	input  string
}

type benchResult struct {
	name      string
	cycles    int
	proofSize int
	prove     time.Duration
	verify    time.Duration
}

// counter returns a program that counts a cell down from n
func counter(n int) string {
	return strings.Repeat("+", n) + "[-]"
}

func benchCases() []benchCase {
	return []benchCase{
		{name: "countdown-16", source: counter(16)},
		{name: "countdown-64", source: counter(64)},
		{name: "countdown-192", source: counter(192)},
		{name: "echo", source: ",[.,]", input: "zkvm"},
		{name: "hello", source: "++++++++[>++++++++<-]>++++++++."},
	}
}

func main() {
	out := flag.String("out", "bench.html", "output HTML file")
	flag.Parse()

	zkvm, err := brainfuckzkvm.New(nil)
	if err != nil {
		log.Fatalf("failed to create zkVM: %v", err)
	}

	results := make([]benchResult, 0, len(benchCases()))
	for _, bc := range benchCases() {
		execution, err := zkvm.Run(bc.source, []byte(bc.input))
		if err != nil {
			log.Fatalf("%s: execution failed: %v", bc.name, err)
		}

		start := time.Now()
		proof, err := zkvm.Prove(execution)
		if err != nil {
			log.Fatalf("%s: proving failed: %v", bc.name, err)
		}
		proveTime := time.Since(start)

		start = time.Now()
		if err := zkvm.Verify(proof); err != nil {
			log.Fatalf("%s: verification failed: %v", bc.name, err)
		}
		verifyTime := time.Since(start)

		results = append(results, benchResult{
			name:      bc.name,
			cycles:    execution.CycleCount,
			proofSize: proof.Size(),
			prove:     proveTime,
			verify:    verifyTime,
		})
		fmt.Printf("%-16s %6d cycles  prove %-12v verify %-12v proof %d bytes\n",
			bc.name, execution.CycleCount, proveTime, verifyTime, proof.Size())
	}

	page := components.NewPage()
	page.AddCharts(timingChart(results), sizeChart(results))

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *out, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("failed to render chart: %v", err)
	}
	fmt.Println("Benchmark page:", *out)
}

func timingChart(results []benchResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Proving and verification time", Subtitle: "milliseconds"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "brainfuck-zkvm bench", Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, len(results))
	proveItems := make([]opts.BarData, len(results))
	verifyItems := make([]opts.BarData, len(results))
	for i, r := range results {
		names[i] = r.name
		proveItems[i] = opts.BarData{Value: float64(r.prove.Microseconds()) / 1000.0}
		verifyItems[i] = opts.BarData{Value: float64(r.verify.Microseconds()) / 1000.0}
	}

	bar.SetXAxis(names).
		AddSeries("prove", proveItems).
		AddSeries("verify", verifyItems)
	return bar
}

func sizeChart(results []benchResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Proof size", Subtitle: "bytes"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "brainfuck-zkvm bench", Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, len(results))
	sizeItems := make([]opts.BarData, len(results))
	for i, r := range results {
		names[i] = r.name
		sizeItems[i] = opts.BarData{Value: r.proofSize}
	}

	bar.SetXAxis(names).AddSeries("proof size", sizeItems)
	return bar
}
