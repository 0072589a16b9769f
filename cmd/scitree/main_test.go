package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitree/pkg/log"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := log.SetProvider(log.NewTestLoggerProvider(log.NewTestLogger(log.LevelInfo)))
	t.Cleanup(func() { log.SetProvider(prev) })

	var stdout, stderr bytes.Buffer
	cmd := cliParser()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "scitree v0.1.0\n", out)
}

func TestConfigMergesFlagsAndEnvironment(t *testing.T) {
	t.Setenv("SCITREE_ENSEMBLE_ROUNDS", "9")
	out, err := run(t, "config", "--trees", "7", "--criterion", "infgain")
	require.NoError(t, err)
	assert.Contains(t, out, "model: tree")
	assert.Contains(t, out, "n_trees: 7")
	assert.Contains(t, out, "rounds: 9")
	assert.Contains(t, out, "criterion: infgain")
}

func TestConfigFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "config", "--model", "bagging", "--depth", "3")
	require.NoError(t, err)
	path := filepath.Join(dir, "scitree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	again, err := run(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Contains(t, again, "model: bagging")
	assert.Contains(t, again, "max_depth: 3")
}

func TestUnknownModel(t *testing.T) {
	_, err := run(t, "config", "--model", "svm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")
}

func TestFitPredictInspectTree(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "tree.gob")

	out, err := run(t, "fit", "-i", "synthetic:iris", "-o", modelPath, "--seed", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "train accuracy="), out)

	out, err = run(t, "predict", "-f", modelPath, "-i", "synthetic:iris", "--labels")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "label", lines[0])
	assert.Len(t, lines, 151)

	out, err = run(t, "predict", "-f", modelPath, "-i", "synthetic:iris")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "setosa,versicolor,virginica\n"))

	out, err = run(t, "inspect", "-f", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "if feat[")

	out, err = run(t, "inspect", "-f", modelPath, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"model_type": "DecisionTree"`)

	out, err = run(t, "inspect", "-f", modelPath, "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph G")
}

func TestFitBoostingAndPlot(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "m1.gob")

	_, err := run(t, "fit", "-i", "synthetic:iris", "-m", "adaboost-m1", "--depth", "2", "--rounds", "4", "-o", modelPath)
	require.NoError(t, err)

	out, err := run(t, "inspect", "-f", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ENSEMBLE MEMBERS")
	assert.Contains(t, out, "tree: #1")

	png := filepath.Join(dir, "curve.png")
	_, err = run(t, "plot", "-f", modelPath, "-o", png)
	require.NoError(t, err)
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFitRegressionWithScalerAndTestSplit(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "rt.gob")

	out, err := run(t, "fit", "-i", "synthetic:polynomial", "-m", "adaboost-rt",
		"--threshold", "0.1", "--depth", "3", "--scale", "standard", "--test-size", "0.25", "-o", modelPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "test r2="), out)

	b, err := loadBundle(modelPath)
	require.NoError(t, err)
	require.NotNil(t, b.RT)
	require.NotNil(t, b.Standard)
	assert.True(t, b.Standard.IsFitted())
	assert.Nil(t, b.Classes)

	svg := filepath.Join(dir, "fit.svg")
	_, err = run(t, "plot", "-f", modelPath, "--kind", "fit", "-i", "synthetic:polynomial", "-o", svg)
	require.NoError(t, err)
	_, err = os.Stat(svg)
	require.NoError(t, err)
}

func TestPlotCurveNeedsBoosting(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "bag.gob")
	_, err := run(t, "fit", "-i", "synthetic:blobs", "-m", "forest", "--trees", "3", "--jobs", "2", "-o", modelPath)
	require.NoError(t, err)

	_, err = run(t, "plot", "-f", modelPath, "-o", filepath.Join(dir, "x.png"))
	require.Error(t, err)
}

func TestFitRequiresInput(t *testing.T) {
	_, err := run(t, "fit", "-o", filepath.Join(t.TempDir(), "m.gob"))
	require.Error(t, err)
}
