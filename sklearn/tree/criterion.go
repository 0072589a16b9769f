package tree

import (
	"math"
	"sync"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Criterion names an impurity metric. Lower is purer.
type Criterion string

const (
	// CriterionGini is 1 − Σ p_c² with p_c the column mean of a one-hot target.
	CriterionGini Criterion = "gini"
	// CriterionInfGain is the Shannon entropy −Σ p_c log2 p_c.
	CriterionInfGain Criterion = "infgain"
	// CriterionDeviation is the population standard deviation of the targets.
	CriterionDeviation Criterion = "deviation"
	// CriterionWGini is Gini with class shares taken from sample weight mass.
	CriterionWGini Criterion = "wgini"
	// CriterionWInfGain is entropy with class shares taken from sample weight mass.
	CriterionWInfGain Criterion = "winfgain"
)

// ImpurityFunc scores the aggregate of a non-empty partition.
type ImpurityFunc func(s *Stats) float64

type criterionEntry struct {
	fn       ImpurityFunc
	weighted bool
}

var (
	criteriaMu sync.RWMutex
	criteria   = map[Criterion]criterionEntry{
		CriterionGini:      {fn: giniStats},
		CriterionInfGain:   {fn: entropyStats},
		CriterionDeviation: {fn: deviationStats},
		CriterionWGini:     {fn: wGiniStats, weighted: true},
		CriterionWInfGain:  {fn: wEntropyStats, weighted: true},
	}
)

// RegisterCriterion adds or replaces an impurity metric. Weighted metrics make
// Fit fail with a MissingWeightError when no weights are supplied.
func RegisterCriterion(name Criterion, fn ImpurityFunc, weighted bool) {
	criteriaMu.Lock()
	defer criteriaMu.Unlock()
	criteria[name] = criterionEntry{fn: fn, weighted: weighted}
}

func lookupCriterion(name Criterion) (criterionEntry, error) {
	criteriaMu.RLock()
	defer criteriaMu.RUnlock()
	e, ok := criteria[name]
	if !ok {
		return criterionEntry{}, errors.NewValidationError("criterion", "unknown impurity metric", string(name))
	}
	return e, nil
}

// Weighted reports whether the criterion needs sample weights.
func (c Criterion) Weighted() bool {
	e, err := lookupCriterion(c)
	return err == nil && e.weighted
}

// Stats is the running aggregate of a partition's targets that every
// impurity metric is computed from. Rows are added one at a time so the
// sorted split search can sweep prefix and suffix aggregates.
type Stats struct {
	N         int
	Sum       []float64 // per target column
	ClassMass []float64 // weight mass per argmax class
	Mass      float64   // total weight

	count int // number of target elements seen (N·k)
	mean  float64
	m2    float64
}

// NewStats returns an empty aggregate over k target columns.
func NewStats(k int) *Stats {
	return &Stats{Sum: make([]float64, k), ClassMass: make([]float64, k)}
}

// Reset clears the aggregate for reuse.
func (s *Stats) Reset() {
	s.N, s.Mass, s.count, s.mean, s.m2 = 0, 0, 0, 0, 0
	for i := range s.Sum {
		s.Sum[i] = 0
		s.ClassMass[i] = 0
	}
}

// Add accumulates one target row whose argmax column is cls with weight w.
func (s *Stats) Add(row []float64, cls int, w float64) {
	s.N++
	for j, v := range row {
		s.Sum[j] += v
		// Welford: a constant partition yields exactly m2 == 0
		s.count++
		delta := v - s.mean
		s.mean += delta / float64(s.count)
		s.m2 += delta * (v - s.mean)
	}
	s.ClassMass[cls] += w
	s.Mass += w
}

// Share is the mean of column c.
func (s *Stats) Share(c int) float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum[c] / float64(s.N)
}

// WeightedShare is the fraction of weight mass whose argmax class is c.
// Only an exactly zero mass yields 0; tiny masses are divided as is.
func (s *Stats) WeightedShare(c int) float64 {
	if s.Mass == 0 {
		return 0
	}
	return s.ClassMass[c] / s.Mass
}

// Std is the population standard deviation over all target elements.
func (s *Stats) Std() float64 {
	if s.count == 0 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.count))
}

func giniStats(s *Stats) float64 {
	sum := 0.0
	for c := range s.Sum {
		p := s.Share(c)
		sum += p * p
	}
	return 1 - sum
}

func entropyStats(s *Stats) float64 {
	h := 0.0
	for c := range s.Sum {
		if p := s.Share(c); p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

func deviationStats(s *Stats) float64 {
	return s.Std()
}

func wGiniStats(s *Stats) float64 {
	if s.Mass == 0 {
		return 0
	}
	sum := 0.0
	for c := range s.ClassMass {
		p := s.WeightedShare(c)
		sum += p * p
	}
	return 1 - sum
}

func wEntropyStats(s *Stats) float64 {
	h := 0.0
	for c := range s.ClassMass {
		if p := s.WeightedShare(c); p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

func statsOf(y mat.Matrix, w []float64) *Stats {
	r, k := y.Dims()
	s := NewStats(k)
	row := make([]float64, k)
	for i := 0; i < r; i++ {
		mat.Row(row, i, y)
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		s.Add(row, floats.MaxIdx(row), wi)
	}
	return s
}

// Gini returns the Gini impurity of a one-hot target matrix.
func Gini(y mat.Matrix) float64 {
	return giniStats(statsOf(y, nil))
}

// InfGain returns the Shannon entropy (base 2) of a one-hot target matrix.
func InfGain(y mat.Matrix) float64 {
	return entropyStats(statsOf(y, nil))
}

// Deviation returns the population standard deviation of all entries of y.
func Deviation(y mat.Matrix) float64 {
	return deviationStats(statsOf(y, nil))
}

func checkWeights(op string, y mat.Matrix, w []float64) error {
	if w == nil {
		return errors.NewMissingWeightError(op)
	}
	if r, _ := y.Dims(); len(w) != r {
		return errors.NewDimensionError(op, r, len(w), 0)
	}
	return nil
}

// WGini returns the Gini impurity with class shares p_c = Σ w·[argmax = c] / Σ w.
func WGini(y mat.Matrix, w []float64) (float64, error) {
	if err := checkWeights("WGini", y, w); err != nil {
		return 0, err
	}
	return wGiniStats(statsOf(y, w)), nil
}

// WInfGain returns the entropy with weighted class shares.
func WInfGain(y mat.Matrix, w []float64) (float64, error) {
	if err := checkWeights("WInfGain", y, w); err != nil {
		return 0, err
	}
	return wEntropyStats(statsOf(y, w)), nil
}
