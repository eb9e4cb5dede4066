package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/collate/internal/collate"
	"github.com/born-ml/collate/internal/config"
	"github.com/born-ml/collate/internal/serialization"
	"github.com/born-ml/collate/internal/tensor"
)

// idsKey is the output metadata entry listing sample IDs as a JSON array.
const idsKey = "ids"

func batchAction(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, logger, err := setup(cmd)
	if nil != err {
		return err
	}

	if v := cmd.String("layout"); v != "" {
		conf.Collate.Layout = v
	}
	if v := cmd.String("inputs-key"); v != "" {
		conf.IO.InputsKey = v
	}
	if v := cmd.String("targets-key"); v != "" {
		conf.IO.TargetsKey = v
	}
	if cmd.IsSet("center-sequences") {
		conf.Collate.CenterSequences = cmd.Bool("center-sequences")
	}
	if cmd.IsSet("parallel") {
		conf.Collate.Parallel.Enabled = cmd.Bool("parallel")
	}
	if _, err := tensor.ParseLayout(conf.Collate.Layout); nil != err {
		return fmt.Errorf("--layout: %w", err)
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		logger.Error().Msg("No input files given")
		return exitCodeError(2)
	}

	return runBatch(ctx, logger, conf, paths, cmd.String("out"))
}

// runBatch loads every sample file, collates them and writes the batch to out.
func runBatch(ctx context.Context, logger zerolog.Logger, conf *config.Config, paths []string, out string) error {
	samples, err := loadSamples(ctx, logger, conf, paths)
	if nil != err {
		return err
	}

	collator := collate.New(conf.Collate.ToCollator(logger))
	record, err := collator.Collate(samples)
	if nil != err {
		return fmt.Errorf("collate %d samples: %w", len(samples), err)
	}

	idsJSON, err := json.Marshal(record.IDs)
	if nil != err {
		return fmt.Errorf("marshal sample ids: %v", err)
	}

	items := map[string]*tensor.Item{conf.IO.InputsKey: record.Inputs}
	if record.Targets != nil {
		items[conf.IO.TargetsKey] = record.Targets
	}
	if err := serialization.WriteItems(out, items, map[string]string{idsKey: string(idsJSON)}); nil != err {
		return fmt.Errorf("write batch %s: %w", out, err)
	}

	size := record.Inputs.Raw().ByteSize()
	if record.Targets != nil {
		size += record.Targets.Raw().ByteSize()
	}
	logger.Info().
		Str("out", out).
		Int("samples", record.Len()).
		Stringer("inputs", record.Inputs).
		Str("size", humanize.Bytes(uint64(size))). //nolint:gosec // G115: size is non-negative.
		Msg("Batch written")

	return nil
}

// loadSamples reads one sample per file, at most conf.IO.Concurrency files at a
// time. Samples keep the order of paths.
func loadSamples(ctx context.Context, logger zerolog.Logger, conf *config.Config, paths []string) ([]collate.Sample, error) {
	var (
		wg, wgctx = errgroup.WithContext(ctx)
		samples   = make([]collate.Sample, len(paths))
		fallback  = conf.Collate.ParsedLayout()
	)

	wg.SetLimit(conf.IO.Concurrency)
	for i, path := range paths {
		i, path := i, path // per-iteration copies for go < 1.22 loop semantics
		wg.Go(func() error {
			if err := wgctx.Err(); nil != err {
				return err
			}

			sample, err := loadSample(path, conf.IO, fallback)
			if nil != err {
				logger.Error().Err(err).Str("file", path).Msg("Failed to load sample")
				return err
			}
			samples[i] = sample

			logger.Debug().
				Str("file", path).
				Stringer("inputs", sample.Inputs).
				Bool("targets", sample.Targets != nil).
				Msg("Sample loaded")
			return nil
		})
	}

	if err := wg.Wait(); nil != err {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("load samples: %w", err)
	}
	return samples, nil
}

func loadSample(path string, files config.IO, fallback tensor.Layout) (sample collate.Sample, err error) {
	r, err := serialization.Open(path)
	if nil != err {
		return collate.Sample{}, err
	}
	defer func() {
		if closeErr := r.Close(); nil != closeErr && nil == err {
			err = fmt.Errorf("close %s: %v", path, closeErr)
		}
	}()

	inputs, err := r.LoadItem(files.InputsKey, fallback)
	if nil != err {
		return collate.Sample{}, fmt.Errorf("%s: %w", path, err)
	}

	var targets *tensor.Item
	if info, infoErr := r.Info(files.TargetsKey); nil == infoErr {
		// Untagged targets share the inputs' channel order.
		targetLayout := tensor.Layout{Order: inputs.Order(), SpatialDims: max(len(info.Shape)-1, 1)}
		if targets, err = r.LoadItem(files.TargetsKey, targetLayout); nil != err {
			return collate.Sample{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	return collate.Sample{
		Inputs:  inputs,
		Targets: targets,
		ID:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Extra:   r.Metadata(),
	}, nil
}
