package model

// Classifier is the contract every base estimator and ensemble satisfies.
// sampleWeight may be nil, in which case every sample counts equally.
type Classifier interface {
	Fit(X [][]float64, y []int, sampleWeight []float64) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) [][]float64
	Classes() []int
}

// ProbaEstimator is satisfied by estimators whose per-class scores can be
// combined additively (boosting, bagging).
type ProbaEstimator interface {
	Classifier
	DecisionFunction(X [][]float64) [][]float64
}
