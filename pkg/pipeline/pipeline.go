// Package pipeline chains preprocessing transformers in front of a final
// classifier, fit-on-train / transform-everywhere style.
package pipeline

import (
	"errors"

	"github.com/dumpmemory/imbalanced-ensemble/pkg/model"
)

// Transformer is a fit/transform preprocessing step.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
	FitTransform(X [][]float64) ([][]float64, error)
}

// Pipeline runs its transformers in order and hands the result to the
// final classifier.
type Pipeline struct {
	steps []Transformer
	final model.Classifier
}

func New(final model.Classifier, steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps, final: final}
}

// Fit fits each transformer on the running transform of X, then fits the
// final classifier.
func (p *Pipeline) Fit(X [][]float64, y []int, sampleWeight []float64) error {
	if p.final == nil {
		return errors.New("pipeline: nil final classifier")
	}
	var err error
	for _, step := range p.steps {
		if X, err = step.FitTransform(X); err != nil {
			return err
		}
	}
	return p.final.Fit(X, y, sampleWeight)
}

func (p *Pipeline) transform(X [][]float64) ([][]float64, error) {
	var err error
	for _, step := range p.steps {
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

// PredictChecked transforms X through the fitted steps and delegates,
// surfacing any transform error.
func (p *Pipeline) PredictChecked(X [][]float64) ([]int, error) {
	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.final.Predict(Xt), nil
}

// PredictProbaChecked transforms X through the fitted steps and delegates,
// surfacing any transform error.
func (p *Pipeline) PredictProbaChecked(X [][]float64) ([][]float64, error) {
	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.final.PredictProba(Xt), nil
}

// Predict satisfies model.Classifier, whose contract has no error return.
// A transform failure yields zero-valued predictions; callers that need
// the error use PredictChecked.
func (p *Pipeline) Predict(X [][]float64) []int {
	out, err := p.PredictChecked(X)
	if err != nil {
		return make([]int, len(X))
	}
	return out
}

// PredictProba satisfies model.Classifier; see Predict for the error
// contract.
func (p *Pipeline) PredictProba(X [][]float64) [][]float64 {
	out, err := p.PredictProbaChecked(X)
	if err != nil {
		return make([][]float64, len(X))
	}
	return out
}

// Classes delegates to the final classifier.
func (p *Pipeline) Classes() []int {
	return p.final.Classes()
}
