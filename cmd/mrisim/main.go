package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mrisim/pkg/config"
	"mrisim/pkg/scanner"
	"mrisim/pkg/visualization"
)

func main() {
	// Parse command line arguments
	mode := flag.String("mode", "scan", "What to run: phantoms (design study) or scan (virtual MRI scanner)")
	configPath := flag.String("config", "mrisim.yaml", "YAML configuration file (defaults are used if it does not exist)")
	outputDir := flag.String("output", "", "Directory for figures and results (overrides the config file)")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this path and exit")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *writeConfig)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	sink := visualization.NewPNGSink(cfg.Output.Dir, cfg.Output.DPI)

	fmt.Println("================================")
	fmt.Println("VIRTUAL MRI SCANNER")
	fmt.Println("Spin-echo simulation over an ellipse phantom")
	fmt.Println("================================")

	startTime := time.Now()

	switch *mode {
	case "phantoms":
		fmt.Println("Generating design phantoms...")
		images, err := scanner.DesignPhantoms(cfg, sink)
		if err != nil {
			log.Fatalf("Phantom generation failed: %v", err)
		}
		fmt.Printf("\n%d phantoms of %dx%d saved to: %s\n", len(images), cfg.Grid.Size, cfg.Grid.Size, cfg.Output.Dir)

	case "scan":
		fmt.Println("Starting virtual scan...")
		s := scanner.NewScanner(cfg, sink)
		if err := s.Process(); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		results := s.GetResults()

		fmt.Printf("\nScan completed in %.2f seconds!\n", time.Since(startTime).Seconds())
		fmt.Printf("Outputs saved to: %s\n\n", cfg.Output.Dir)

		fmt.Println("Structural Similarity (SSIM):")
		fmt.Println("=======================================")
		for _, score := range results.Scores {
			fmt.Printf("%s: %.6f\n", score.Label, score.Value)
		}

		fmt.Println("\nRoot Mean Square Error (RMSE):")
		fmt.Println("=======================================")
		for _, score := range results.Errors {
			fmt.Printf("%s: %.6f\n", score.Label, score.Value)
		}

		if len(results.Warnings) > 0 {
			fmt.Printf("\n%d numeric warnings were raised during the scan\n", len(results.Warnings))
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		flag.Usage()
		os.Exit(1)
	}
}
