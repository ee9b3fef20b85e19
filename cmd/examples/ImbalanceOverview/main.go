package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/datagen"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/visualize"
)

func printDistribution(name string, y []int) {
	dist := model.ClassDistribution(y)
	classes := make([]int, 0, len(dist))
	for c := range dist {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	fmt.Printf("%s class distribution (%d samples):\n", name, len(y))
	for _, c := range classes {
		fmt.Printf("  class %d: %d (%.1f%%)\n", c, dist[c], 100*float64(dist[c])/float64(len(y)))
	}
}

func main() {
	fmt.Println("=== Imbalanced Dataset Overview ===")

	// Step 1. Generate a heavily imbalanced 3-class dataset.
	cfg := datagen.DefaultConfig()
	cfg.NFeatures = 3
	cfg.NInformative = 2
	cfg.NRedundant = 0
	cfg.NClustersPerClass = 1
	cfg.ClassSep = 0.8
	cfg.Seed = 0

	split, err := datagen.GenerateImbalanceData(10000, []float64{0.01, 0.05, 0.94}, 0.25, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d train / %d test samples with %d features.\n\n",
		len(split.XTrain), len(split.XTest), cfg.NFeatures)

	// Step 2. Report the class cardinalities per split.
	printDistribution("Train", split.YTrain)
	fmt.Println()
	printDistribution("Test", split.YTest)

	// Step 3. Render the 2D projection of the training split.
	err = visualize.PlotProjection(split.XTrain, split.YTrain,
		visualize.WithTitle("Imbalanced training data (2D projection)"),
		visualize.WithOutput("imbalance_overview.png"),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("\nSaved projection plot to imbalance_overview.png")
}
