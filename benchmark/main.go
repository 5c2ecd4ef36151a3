// Package main provides a performance benchmarking tool for the provscope CLI.
// It generates synthetic provenance graphs at several sizes, measures execution
// times across strategies, running each test multiple times and averaging,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - provscope binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory to place generated graph files
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the averaged timing of one command on one graph size.
type BenchmarkResult struct {
	Graph   string
	Command string
	AvgTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Runs       int
	Sizes      map[string]int
	Strategies []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    4,
		Sizes: map[string]int{
			"small":  1_000,
			"medium": 50_000,
			"large":  500_000,
		},
		Strategies: []string{"proctree", "extension", "timecluster", "smallgroups", "neighbors"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	graphs, err := generateGraphs(config)
	if err != nil {
		fmt.Printf("Graph generation failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, graphs)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the provscope binary and work dir exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("provscope"); err != nil {
		return fmt.Errorf("provscope binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir: %w", err)
	}
	return nil
}

// jsonDoc mirrors the graph file format accepted by provscope.
type jsonDoc struct {
	TimeBase float64      `json:"time_base"`
	Objects  []jsonObject `json:"objects"`
	Nodes    []jsonNode   `json:"nodes"`
	Edges    []jsonEdge   `json:"edges"`
}

type jsonObject struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	PID  int    `json:"pid,omitempty"`
	PPID int    `json:"ppid,omitempty"`
}

type jsonNode struct {
	ID     int     `json:"id"`
	Object int     `json:"object"`
	Time   float64 `json:"time"`
}

type jsonEdge struct {
	Kind string `json:"kind"`
	Src  int    `json:"src"`
	Dst  int    `json:"dst"`
}

// generateGraphs writes one synthetic graph file per configured size and
// returns name -> path. The shape mimics a build-like workload: a process
// tree with fanout 8, each process reading and writing a handful of
// artifacts, timestamps drawn from a bounded window.
func generateGraphs(config BenchmarkConfig) (map[string]string, error) {
	graphs := make(map[string]string)
	rng := rand.New(rand.NewSource(42))

	for name, nodeCount := range config.Sizes {
		path := filepath.Join(config.WorkDir, fmt.Sprintf("bench_%s.json", name))
		fmt.Printf("Generating %s graph (%d nodes) at %s\n", name, nodeCount, path)
		if err := writeGraph(path, nodeCount, rng); err != nil {
			return nil, err
		}
		graphs[name] = path
	}
	return graphs, nil
}

func writeGraph(path string, nodeCount int, rng *rand.Rand) error {
	doc := jsonDoc{TimeBase: 1_700_000_000}

	// Roughly one object per three nodes, a fifth of them processes.
	objectCount := nodeCount/3 + 1
	processCount := objectCount/5 + 1
	for i := range objectCount {
		obj := jsonObject{ID: i}
		if i < processCount {
			obj.Kind = "process"
			obj.Name = fmt.Sprintf("/usr/bin/worker%d", i%40)
			obj.PID = 1000 + i
			if i > 0 {
				obj.PPID = 1000 + (i-1)/8
			}
		} else {
			obj.Kind = "artifact"
			obj.Name = fmt.Sprintf("/tmp/data/part%d.%s", i, []string{"log", "tmp", "o", "dat"}[i%4])
		}
		doc.Objects = append(doc.Objects, obj)
	}

	for i := range nodeCount {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID:     i,
			Object: i % objectCount,
			Time:   rng.Float64() * 3600,
		})
	}

	// Two edges per node on average, biased toward process endpoints.
	for i := 0; i < nodeCount*2; i++ {
		src := rng.Intn(nodeCount)
		dst := rng.Intn(nodeCount)
		if src == dst {
			continue
		}
		kind := "data"
		if i%10 == 0 {
			kind = "control"
		}
		doc.Edges = append(doc.Edges, jsonEdge{Kind: kind, Src: src, Dst: dst})
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()
	return json.NewEncoder(file).Encode(doc)
}

// runBenchmarks executes all benchmark tests across generated graphs.
func runBenchmarks(config BenchmarkConfig, graphs map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d graphs, %v timeout, %d runs each\n",
		len(graphs), config.Timeout, config.Runs)

	for name, path := range graphs {
		fmt.Printf("Benchmarking %s\n", name)

		for _, strategy := range config.Strategies {
			desc := fmt.Sprintf("summarize --strategy %s", strategy)
			results = append(results, runBenchmarkSuite(config, name, path, "summarize", desc,
				[]string{"--strategy", strategy}))
		}

		results = append(results, runBenchmarkSuite(config, name, path, "rank", "rank", nil))
		results = append(results, runBenchmarkSuite(config, name, path, "stats", "stats", nil))
	}

	return results
}

// runBenchmarkSuite runs one command repeatedly and averages successful runs.
func runBenchmarkSuite(config BenchmarkConfig, graphName, graphPath, command, description string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, graphName)

	times := runBenchmark(config, graphPath, command, extraArgs)

	avg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		avg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}
	fmt.Printf("  Average: %s\n", avg)

	return BenchmarkResult{
		Graph:   graphName,
		Command: description,
		AvgTime: avg,
	}
}

// runBenchmark executes a provscope command multiple times and returns the
// elapsed times of successful runs.
func runBenchmark(config BenchmarkConfig, graphPath, command string, extraArgs []string) []float64 {
	args := []string{command, graphPath, "--run-backend", "none"}
	args = append(args, extraArgs...)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("provscope", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}
	return times
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	switch command {
	case "summarize":
		return strings.Contains(outputStr, "Summarization completed in")
	case "rank":
		return strings.Contains(outputStr, "Ranking completed in")
	default:
		return strings.Contains(outputStr, "Graph")
	}
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/provscope_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"graph", "cmd", "avg_time"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Graph, result.Command, result.AvgTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s %-36s %s\n", result.Graph, result.Command, result.AvgTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
