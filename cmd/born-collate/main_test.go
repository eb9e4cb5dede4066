package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/collate/internal/config"
	"github.com/born-ml/collate/internal/serialization"
	"github.com/born-ml/collate/internal/tensor"
)

func writeSample(t *testing.T, dir, name string, inputs []float32, shape tensor.Shape, target int64) string {
	t.Helper()

	raw, err := tensor.FromSlice(inputs, shape)
	require.NoError(t, err)
	in, err := tensor.NewItem(raw, tensor.NHWC)
	require.NoError(t, err)

	rawTarget, err := tensor.FromSlice([]int64{target}, tensor.Shape{1, 1})
	require.NoError(t, err)
	tgt, err := tensor.NewItem(rawTarget, tensor.NLC)
	require.NoError(t, err)

	path := filepath.Join(dir, name+".safetensors")
	require.NoError(t, serialization.WriteItems(path, map[string]*tensor.Item{
		"inputs":  in,
		"targets": tgt,
	}, map[string]string{"source": name}))
	return path
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeSample(t, dir, "a", []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3, 1}, 7)
	b := writeSample(t, dir, "b", []float32{10, 20, 30, 40}, tensor.Shape{4, 1, 1}, 8)
	out := filepath.Join(dir, "batch.safetensors")

	conf := config.Default()
	conf.Collate.Parallel.Enabled = true
	require.NoError(t, runBatch(context.Background(), zerolog.Nop(), conf, []string{a, b}, out))

	r, err := serialization.Open(out)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, `["a","b"]`, r.Metadata()["ids"])

	inputs, err := r.LoadItem("inputs", tensor.NCHW)
	require.NoError(t, err)
	assert.Equal(t, tensor.NHWC, inputs.Layout())
	assert.Equal(t, tensor.Shape{2, 4, 3, 1}, inputs.Shape())
	assert.Equal(t, []float32{
		// a: 2x3 centered in 4x3, one row above and below.
		0, 0, 0,
		1, 2, 3,
		4, 5, 6,
		0, 0, 0,
		// b: 4x1 centered in 4x3, one column either side.
		0, 10, 0,
		0, 20, 0,
		0, 30, 0,
		0, 40, 0,
	}, inputs.Raw().AsFloat32())

	targets, err := r.LoadItem("targets", tensor.NCL)
	require.NoError(t, err)
	assert.Equal(t, tensor.NLC, targets.Layout())
	assert.Equal(t, tensor.Shape{2, 1, 1}, targets.Shape())
	assert.Equal(t, []int64{7, 8}, targets.Raw().AsInt64())
}

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSample(t, dir, "first", []float32{1}, tensor.Shape{1, 1, 1}, 0),
		writeSample(t, dir, "second", []float32{2}, tensor.Shape{1, 1, 1}, 1),
		writeSample(t, dir, "third", []float32{3}, tensor.Shape{1, 1, 1}, 2),
	}

	conf := config.Default()
	conf.IO.Concurrency = 2
	samples, err := loadSamples(context.Background(), zerolog.Nop(), conf, paths)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	for i, want := range []string{"first", "second", "third"} {
		assert.Equal(t, want, samples[i].ID)
		assert.Equal(t, map[string]string{
			"source":                             want,
			serialization.LayoutKey("inputs"):  "NHWC",
			serialization.LayoutKey("targets"): "NLC",
		}, samples[i].Extra)
		assert.Equal(t, []int64{int64(i)}, samples[i].Targets.Raw().AsInt64())
	}

	_, err = loadSamples(context.Background(), zerolog.Nop(), conf, append(paths, filepath.Join(dir, "missing.safetensors")))
	assert.Error(t, err)
}

func TestRunBatch_IncompatibleSamples(t *testing.T) {
	dir := t.TempDir()
	a := writeSample(t, dir, "a", []float32{1, 2}, tensor.Shape{1, 1, 2}, 0)
	b := writeSample(t, dir, "b", []float32{1}, tensor.Shape{1, 1, 1}, 0)

	err := runBatch(context.Background(), zerolog.Nop(), config.Default(), []string{a, b}, filepath.Join(dir, "out.safetensors"))
	assert.ErrorContains(t, err, "channels mismatch")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	a := writeSample(t, dir, "a", []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3, 1}, 7)

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, []string{a}))

	out := buf.String()
	assert.Contains(t, out, "inputs")
	assert.Contains(t, out, "targets")
	assert.Contains(t, out, "NHWC")
	assert.Contains(t, out, "[2 3 1]")
	assert.Contains(t, out, "F32")
	assert.Contains(t, out, "24 B")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	require.NoError(t, app.Run(context.Background(), []string{"born-collate", "version"}))
	assert.Equal(t, "born-collate "+version+"\n", buf.String())
}
