package collate

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/born-ml/collate/internal/tensor"
)

// Sample is one un-batched example: an input, an optional target, an
// identifier and caller-defined extra data.
type Sample struct {
	Inputs  *tensor.Item
	Targets *tensor.Item
	ID      string
	Extra   any
}

// Record is a collated batch. Inputs and Targets are batched; IDs and Extras
// are the samples' values in order.
type Record struct {
	Inputs  *tensor.Item
	Targets *tensor.Item // nil when no sample had targets
	IDs     []string
	Extras  []any
}

// Len returns the number of samples in the record.
func (r *Record) Len() int {
	return len(r.IDs)
}

// Collate batches samples with the default configuration.
func Collate(samples []Sample) (*Record, error) {
	return defaultCollator.Collate(samples)
}

// Collate adds a leading batch axis to every sample's inputs and targets,
// batches inputs and targets independently, and carries IDs and extras
// through unchanged.
//
// Either every sample has targets or none has.
func (c *Collator) Collate(samples []Sample) (*Record, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBatch
	}

	hasTargets := samples[0].Targets != nil
	inputs := make([]*tensor.Item, len(samples))
	var targets []*tensor.Item
	if hasTargets {
		targets = make([]*tensor.Item, len(samples))
	}

	for i, s := range samples {
		if s.Inputs == nil {
			return nil, &ShapeMismatchError{Index: i, Field: "inputs", Got: "nil", Want: "tensor"}
		}
		if (s.Targets != nil) != hasTargets {
			return nil, mismatch(i, "targets presence", s.Targets != nil, hasTargets)
		}

		x, err := s.Inputs.Unsqueeze()
		if err != nil {
			return nil, fmt.Errorf("collate: sample %d inputs: %w", i, err)
		}
		inputs[i] = x

		if hasTargets {
			y, err := s.Targets.Unsqueeze()
			if err != nil {
				return nil, fmt.Errorf("collate: sample %d targets: %w", i, err)
			}
			targets[i] = y
		}
	}

	record := &Record{
		IDs:    lo.Map(samples, func(s Sample, _ int) string { return s.ID }),
		Extras: lo.Map(samples, func(s Sample, _ int) any { return s.Extra }),
	}

	var err error
	if record.Inputs, err = c.Batch(inputs); err != nil {
		return nil, fmt.Errorf("collate inputs: %w", err)
	}
	if hasTargets {
		if record.Targets, err = c.Batch(targets); err != nil {
			return nil, fmt.Errorf("collate targets: %w", err)
		}
	}

	c.log.Debug().
		Int("samples", len(samples)).
		Stringer("inputs", record.Inputs).
		Bool("targets", hasTargets).
		Msg("Collated samples")

	return record, nil
}
