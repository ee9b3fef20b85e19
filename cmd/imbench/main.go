// imbench runs the ensemble classifiers against generated or CSV datasets
// and records the results in a local SQLite database.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/bench"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/datagen"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/ensemble"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/loader"
	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
)

type datasetConfig struct {
	Name             string    `yaml:"name"`
	CSV              string    `yaml:"csv"` // when set, loaded instead of generated
	LabelCol         int       `yaml:"label_col"`
	Samples          int       `yaml:"samples"`
	Features         int       `yaml:"features"`
	Informative      int       `yaml:"informative"`
	Redundant        int       `yaml:"redundant"`
	ClustersPerClass int       `yaml:"clusters_per_class"`
	ClassSep         float64   `yaml:"class_sep"`
	Weights          []float64 `yaml:"weights"`
	TestSize         float64   `yaml:"test_size"`
	Seed             int64     `yaml:"seed"`
}

type benchConfig struct {
	Dataset    datasetConfig `yaml:"dataset"`
	Estimators []string      `yaml:"estimators"`
	Rounds     int           `yaml:"rounds"`
	Store      string        `yaml:"store"`
}

func loadConfig(path string) (*benchConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &benchConfig{
		Rounds: 50,
		Store:  "imbench.db",
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Estimators) == 0 {
		cfg.Estimators = []string{"adaboost", "rusboost", "smoteboost", "easyensemble", "balancedforest"}
	}
	return cfg, nil
}

func buildDataset(cfg *datasetConfig) (*datagen.Split, error) {
	if cfg.TestSize <= 0 {
		cfg.TestSize = 0.25
	}
	if cfg.CSV != "" {
		X, y, err := loader.ReadCSV(cfg.CSV, cfg.LabelCol)
		if err != nil {
			return nil, err
		}
		XTrain, XTest, yTrain, yTest, err := loader.StratifiedTrainTestSplit(X, y, cfg.TestSize, cfg.Seed)
		if err != nil {
			return nil, err
		}
		return &datagen.Split{XTrain: XTrain, XTest: XTest, YTrain: yTrain, YTest: yTest}, nil
	}

	gen := datagen.DefaultConfig()
	gen.Seed = cfg.Seed
	if cfg.Features > 0 {
		gen.NFeatures = cfg.Features
	}
	if cfg.Informative > 0 {
		gen.NInformative = cfg.Informative
	}
	if cfg.Redundant > 0 {
		gen.NRedundant = cfg.Redundant
	}
	if cfg.ClustersPerClass > 0 {
		gen.NClustersPerClass = cfg.ClustersPerClass
	}
	if cfg.ClassSep > 0 {
		gen.ClassSep = cfg.ClassSep
	}
	samples := cfg.Samples
	if samples == 0 {
		samples = 5000
	}
	weights := cfg.Weights
	if len(weights) == 0 {
		weights = []float64{0.1, 0.9}
	}
	return datagen.GenerateImbalanceData(samples, weights, cfg.TestSize, gen)
}

// buildEstimator returns the named classifier with a progress bar attached
// to its training rounds where the estimator reports them.
func buildEstimator(name string, rounds int, seed int64) (model.Classifier, *pb.ProgressBar, error) {
	switch name {
	case "adaboost":
		bar := pb.New(rounds)
		clf := ensemble.NewAdaBoostClassifier(
			ensemble.WithNEstimators(rounds),
			ensemble.WithSeed(seed),
			ensemble.WithRoundCallback(func(int) { bar.Increment() }),
		)
		return clf, bar, nil
	case "adaboost-samme":
		bar := pb.New(rounds)
		clf := ensemble.NewAdaBoostClassifier(
			ensemble.WithNEstimators(rounds),
			ensemble.WithAlgorithm(ensemble.SAMME),
			ensemble.WithSeed(seed),
			ensemble.WithRoundCallback(func(int) { bar.Increment() }),
		)
		return clf, bar, nil
	case "rusboost":
		bar := pb.New(rounds)
		clf := ensemble.NewRUSBoostClassifier(
			ensemble.WithNEstimators(rounds),
			ensemble.WithSeed(seed),
			ensemble.WithRoundCallback(func(int) { bar.Increment() }),
		)
		return clf, bar, nil
	case "smoteboost":
		bar := pb.New(rounds)
		clf := ensemble.NewSMOTEBoostClassifier(
			ensemble.WithNEstimators(rounds),
			ensemble.WithSeed(seed),
			ensemble.WithRoundCallback(func(int) { bar.Increment() }),
		)
		return clf, bar, nil
	case "easyensemble":
		subsets := 10
		bar := pb.New(subsets)
		clf := ensemble.NewEasyEnsembleClassifier(
			ensemble.WithNSubsets(subsets),
			ensemble.WithSubsetRounds(rounds/subsets+1),
			ensemble.WithEasySeed(seed),
			ensemble.WithSubsetCallback(func(int) { bar.Increment() }),
		)
		return clf, bar, nil
	case "balancedforest":
		clf := ensemble.NewBalancedRandomForest(
			ensemble.WithNTrees(rounds),
			ensemble.WithForestSeed(seed),
		)
		return clf, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown estimator %q", name)
	}
}

func runBench(logger *zap.SugaredLogger, cfg *benchConfig) error {
	split, err := buildDataset(&cfg.Dataset)
	if err != nil {
		return err
	}
	name := cfg.Dataset.Name
	if name == "" {
		name = "generated"
	}
	logger.Infow("dataset ready",
		"name", name,
		"train", len(split.XTrain),
		"test", len(split.XTest),
		"distribution", model.ClassDistribution(split.YTrain),
	)

	store, err := bench.OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, estName := range cfg.Estimators {
		clf, bar, err := buildEstimator(estName, cfg.Rounds, cfg.Dataset.Seed)
		if err != nil {
			return err
		}
		if bar != nil {
			bar.Start()
		}
		start := time.Now()
		err = clf.Fit(split.XTrain, split.YTrain, nil)
		elapsed := time.Since(start)
		if bar != nil {
			bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("fit %s: %w", estName, err)
		}

		yPred := clf.Predict(split.XTest)
		run := &bench.Run{
			Dataset:          name,
			Estimator:        estName,
			Seed:             cfg.Dataset.Seed,
			BalancedAccuracy: model.BalancedAccuracy(split.YTest, yPred),
			GMean:            model.GeometricMeanScore(split.YTest, yPred),
			FitDuration:      elapsed,
		}
		if err := store.Insert(run); err != nil {
			return err
		}
		logger.Infow("run recorded",
			"estimator", estName,
			"balanced_accuracy", run.BalancedAccuracy,
			"gmean", run.GMean,
			"fit", elapsed.Round(time.Millisecond).String(),
		)
	}
	return nil
}

func showHistory(storePath string, limit int) error {
	store, err := bench.OpenStore(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}
	fmt.Printf("%-20s %-16s %9s %9s %9s  %s\n", "dataset", "estimator", "bal.acc", "gmean", "fit", "when")
	for _, r := range runs {
		fmt.Printf("%-20s %-16s %9.4f %9.4f %9s  %s\n",
			r.Dataset, r.Estimator, r.BalancedAccuracy, r.GMean,
			r.FitDuration.Round(time.Millisecond), r.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func main() {
	var configPath string
	var storePath string
	var limit int

	root := &cobra.Command{
		Use:           "imbench",
		Short:         "Benchmark imbalanced-ensemble classifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Fit the configured estimators and record the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runBench(logger.Sugar(), cfg)
		},
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "imbench.yaml", "benchmark config file")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(storePath, limit)
		},
	}
	historyCmd.Flags().StringVar(&storePath, "store", "imbench.db", "run database")
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to show")

	root.AddCommand(runCmd, historyCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "imbench:", err)
		os.Exit(1)
	}
}
