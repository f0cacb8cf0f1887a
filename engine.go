package variant

import (
	"context"
	"errors"
	"log/slog"
)

// Engine is the generation driver: given a validated Template, a dataset,
// and a VariationConfig, it produces the deterministic stream of
// GeneratedVariation the rest of the pipeline consumes.
type Engine struct {
	log         *slog.Logger
	paraphraser Paraphraser
	runner      Runner
	modelName   string
}

// NewEngine builds an Engine with sensible defaults: slog.Default() for
// logging, no Paraphraser (augmenters needing one fail with
// ParaphraserUnavailable until WithParaphraser is supplied), and no Runner
// (GenerateSharded constructs DefaultRunner lazily if none is set).
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) warnAugmenterFailed(augmenter, field string, err error) {
	e.log.Warn("augmenter failed, keeping original value", "augmenter", augmenter, "field", field, "error", err)
}

// Generate runs the full pipeline over one dataset: validate the template,
// trim to MaxRows, expand every row's fields, combine, and truncate the
// combined stream to MaxVariations. Row order and within-row ordinal order
// are both preserved so two runs with the same inputs produce
// byte-identical output.
func (e *Engine) Generate(t *Template, data []Row, cfg VariationConfig) ([]GeneratedVariation, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	rows := data
	if cfg.MaxRows > 0 && cfg.MaxRows < len(rows) {
		rows = rows[:cfg.MaxRows]
	}

	var fewShot *fewShotSelector
	if t.FewShot != nil {
		fewShot = newFewShotSelector(t, rows, cfg.RandomSeed)
	}

	// max_variations = 0 is a real, explicit budget of zero: it yields an
	// empty list with no side effects, not "unbounded". Only a negative
	// value is treated as "no cap".
	if cfg.MaxVariations == 0 {
		return nil, nil
	}
	maxVariations := cfg.MaxVariations
	if maxVariations < 0 {
		maxVariations = 1<<31 - 1
	}

	var out []GeneratedVariation
	for rowIdx, row := range rows {
		remaining := maxVariations - len(out)
		if remaining <= 0 {
			break
		}
		variations, err := combineRow(t, row, rowIdx, cfg, cfg.RandomSeed, e.paraphraser, e.modelName, e, fewShot, remaining)
		if err != nil {
			// Keep the kind of the underlying failure (e.g.
			// InsufficientFewShotData) so callers can tell cases apart.
			kind := KindGoldExtractionFailed
			var ee *EngineError
			if errors.As(err, &ee) {
				kind = ee.Kind
			}
			return nil, wrapErr(kind, err, "row %d", rowIdx)
		}
		out = append(out, variations...)
	}
	return out, nil
}

// GenerateSharded fans Generate out across disjoint row shards using the
// configured Runner (DefaultRunner if none was set). Shard i's results
// land at result[i]. Every shard uses the same cfg (including RandomSeed).
// Generate takes no context, so a failure in one shard does not stop the
// others; the first error is returned once every shard has finished.
func (e *Engine) GenerateSharded(ctx context.Context, t *Template, shards [][]Row, cfg VariationConfig) ([][]GeneratedVariation, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	runner := e.runner
	if runner == nil {
		runner = DefaultRunner(ctx)
	}

	results := make([][]GeneratedVariation, len(shards))
	for i, shard := range shards {
		i, shard := i, shard
		runner.Go(func() error {
			variations, err := e.Generate(t, shard, cfg)
			if err != nil {
				return err
			}
			results[i] = variations
			return nil
		})
	}

	if err := runner.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
