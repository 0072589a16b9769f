package datasets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestMakePolynomialIsNormalisedAndDeterministic(t *testing.T) {
	X, y, err := MakePolynomial(200, DefaultPolynomial, 0.04, 7)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 200, r)
	assert.Equal(t, 1, c)

	ys := mat.Col(nil, 0, y)
	assert.InDelta(t, 0.0, floats.Min(ys), 1e-12)
	assert.InDelta(t, 1.0, floats.Max(ys), 1e-12)
	for _, x := range mat.Col(nil, 0, X) {
		assert.True(t, x >= -1 && x < 1)
	}

	X2, y2, err := MakePolynomial(200, DefaultPolynomial, 0.04, 7)
	require.NoError(t, err)
	assert.True(t, mat.Equal(X, X2))
	assert.True(t, mat.Equal(y, y2))
}

func TestMakePolynomialRejectsBadInput(t *testing.T) {
	_, _, err := MakePolynomial(1, DefaultPolynomial, 0.1, 1)
	assert.Error(t, err)
	_, _, err = MakePolynomial(10, DefaultPolynomial, -1, 1)
	assert.Error(t, err)
}

func TestPolynomialSplitSizes(t *testing.T) {
	xTrain, yTrain, xTest, yTest, err := PolynomialSplit(100, DefaultPolynomial, 0.2, 0.04, 3)
	require.NoError(t, err)
	n, _ := xTrain.Dims()
	assert.Equal(t, 80, n)
	n, _ = yTrain.Dims()
	assert.Equal(t, 80, n)
	n, _ = xTest.Dims()
	assert.Equal(t, 20, n)
	n, _ = yTest.Dims()
	assert.Equal(t, 20, n)
}

func TestMakeClassificationIsOneHotAndBalanced(t *testing.T) {
	X, y, err := MakeClassification(90, 4, 3, 3, 11)
	require.NoError(t, err)

	r, c := X.Dims()
	assert.Equal(t, 90, r)
	assert.Equal(t, 4, c)

	counts := make([]int, 3)
	for i := 0; i < 90; i++ {
		row := mat.Row(nil, i, y)
		assert.Equal(t, 1.0, floats.Sum(row))
		counts[floats.MaxIdx(row)]++
	}
	assert.Equal(t, []int{30, 30, 30}, counts)
}

func TestMakeClassificationValidation(t *testing.T) {
	_, _, err := MakeClassification(0, 2, 2, 1, 0)
	assert.Error(t, err)
	_, _, err = MakeClassification(10, 0, 2, 1, 0)
	assert.Error(t, err)
	_, _, err = MakeClassification(10, 2, 1, 1, 0)
	assert.Error(t, err)
}

func TestOneHotAndLabels(t *testing.T) {
	y := OneHot([]int{2, 0, 1}, 3)
	assert.Equal(t, []float64{0, 0, 1}, mat.Row(nil, 0, y))
	assert.Equal(t, []int{2, 0, 1}, Labels(y))
}

func TestTrainTestSplitPartitionsRows(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	y := mat.NewDense(10, 1, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90})

	xTrain, yTrain, xTest, yTest, err := TrainTestSplit(X, y, 0.3, 5)
	require.NoError(t, err)

	train := mat.Col(nil, 0, xTrain)
	test := mat.Col(nil, 0, xTest)
	assert.Len(t, train, 7)
	assert.Len(t, test, 3)

	all := append(append([]float64(nil), train...), test...)
	assert.ElementsMatch(t, mat.Col(nil, 0, X), all)
	for i, v := range train {
		assert.Equal(t, v*10, yTrain.At(i, 0))
		if i > 0 {
			assert.Less(t, train[i-1], v)
		}
	}
	for i, v := range test {
		assert.Equal(t, v*10, yTest.At(i, 0))
	}
}

func TestTrainTestSplitErrors(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, _, _, _, err := TrainTestSplit(X, mat.NewDense(2, 1, nil), 0.5, 0)
	assert.Error(t, err)
	_, _, _, _, err = TrainTestSplit(X, mat.NewDense(3, 1, nil), 0, 0)
	assert.Error(t, err)
	_, _, _, _, err = TrainTestSplit(X, mat.NewDense(3, 1, nil), 0.01, 0)
	assert.Error(t, err)
}

func TestLoadCSVClassification(t *testing.T) {
	in := "sepal,petal,species\n5.1,1.4,setosa\n6.3,6.0,virginica\n5.9,4.2,versicolor\n5.0,1.3,setosa\n"
	tab, err := LoadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"sepal", "petal"}, tab.FeatureNames)
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, tab.Classes)
	assert.Equal(t, []int{0, 2, 1, 0}, Labels(tab.Y))
	assert.Equal(t, 6.3, tab.X.At(1, 0))
}

func TestLoadCSVRegressionWithoutHeader(t *testing.T) {
	tab, err := LoadCSV(strings.NewReader("1,2,0.5\n3,4,1.5\n"))
	require.NoError(t, err)

	assert.Nil(t, tab.Classes)
	assert.Equal(t, []string{"X1", "X2"}, tab.FeatureNames)
	assert.Equal(t, []float64{0.5, 1.5}, mat.Col(nil, 0, tab.Y))
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.Error(t, err)
	_, err = LoadCSV(strings.NewReader("a,b\n"))
	assert.Error(t, err)
	_, err = LoadCSV(strings.NewReader("1,2,3\n1,x,3\n"))
	assert.Error(t, err)
}

func TestNpyRoundTrip(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	var buf bytes.Buffer
	require.NoError(t, WriteNpy(&buf, m))

	got, err := ReadNpy(&buf)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, got))
}
