package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"ingestcli/internal/config"
	apperrors "ingestcli/internal/errors"
)

// ColumnRename maps a source column to its new name
type ColumnRename struct {
	From string
	To   string
}

// DefaultRenames turns the reference dataset's label and message columns
// into target and text.
var DefaultRenames = []ColumnRename{
	{From: config.ColumnLabel, To: config.ColumnTarget},
	{From: config.ColumnText, To: config.ColumnBody},
}

// Preprocessor drops placeholder columns and renames the payload columns.
type Preprocessor struct {
	logger        *slog.Logger
	drop          []string
	renames       []ColumnRename
	dropMissingOK bool
}

// PreprocessorOption configures a Preprocessor
type PreprocessorOption func(*Preprocessor)

// WithDropColumns replaces the columns removed before renaming
func WithDropColumns(columns ...string) PreprocessorOption {
	return func(p *Preprocessor) {
		p.drop = columns
	}
}

// WithRenames replaces the column renames
func WithRenames(renames ...ColumnRename) PreprocessorOption {
	return func(p *Preprocessor) {
		p.renames = renames
	}
}

// WithDropMissingOK skips absent drop columns instead of failing
func WithDropMissingOK(ok bool) PreprocessorOption {
	return func(p *Preprocessor) {
		p.dropMissingOK = ok
	}
}

// NewPreprocessor creates a Preprocessor for the reference dataset layout
func NewPreprocessor(logger *slog.Logger, opts ...PreprocessorOption) *Preprocessor {
	p := &Preprocessor{
		logger:  logger,
		drop:    config.PlaceholderColumns,
		renames: DefaultRenames,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preprocess returns a copy of df without the drop columns and with the
// renames applied. Every referenced column is checked before anything is
// changed; df itself is never modified.
func (p *Preprocessor) Preprocess(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	const op = "preprocess"

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var missing, drop, skipped []string
	for _, col := range p.drop {
		switch {
		case present[col]:
			drop = append(drop, col)
		case p.dropMissingOK:
			skipped = append(skipped, col)
		default:
			missing = append(missing, col)
		}
	}
	for _, r := range p.renames {
		if !present[r.From] {
			missing = append(missing, r.From)
		}
	}

	if len(missing) > 0 {
		err := apperrors.NewMissingColumnError(op, missing)
		p.logger.Error(fmt.Sprintf("Missing column in the dataframe: %s", strings.Join(missing, ", ")),
			slog.String("error", err.Error()))
		return dataframe.DataFrame{}, err
	}
	if len(skipped) > 0 {
		p.logger.Warn("Placeholder columns not present, skipping drop",
			slog.String("columns", strings.Join(skipped, ", ")))
	}

	out := df.Copy()
	if len(drop) > 0 {
		out = out.Drop(drop)
	}
	for _, r := range p.renames {
		out = out.Rename(r.To, r.From)
	}
	if out.Err != nil {
		err := apperrors.NewAppError(apperrors.ErrTypeUnexpected, op, "failed to transform columns", out.Err)
		p.logger.Error("Unexpected error during preprocessing", slog.String("error", err.Error()))
		return dataframe.DataFrame{}, err
	}

	p.logger.Debug("Data pre-processing completed",
		slog.String("columns", strings.Join(out.Names(), ",")),
		slog.Int("rows", out.Nrow()))
	return out, nil
}
