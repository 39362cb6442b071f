package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/replaycheck/internal/config"
	"github.com/roach88/replaycheck/internal/value"
)

// Documents holds the two loaded inputs.
type Documents struct {
	Reference value.Value
	Candidate value.Value
}

// loadConfig reads --config over the defaults. Without --config the
// defaults are used as-is.
func loadConfig(opts *RootOptions, formatter *OutputFormatter) (config.Config, error) {
	if opts.ConfigPath == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		details := map[string]string{"path": opts.ConfigPath}
		if errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, formatter.CommandErrorDetails(ErrCodeNotFound, "config file not found", err, details)
		}
		return config.Config{}, formatter.CommandErrorDetails(ErrCodeInvalidConfig, "failed to load config", err, details)
	}
	opts.logger().Debug("Loaded config", zap.String("path", opts.ConfigPath))
	return cfg, nil
}

// validateConfig re-checks a configuration after flags were applied.
func validateConfig(cfg config.Config, formatter *OutputFormatter) error {
	if err := cfg.Validate(); err != nil {
		return formatter.CommandError(ErrCodeInvalidConfig, "invalid settings", err)
	}
	return nil
}

// applyInputArgs overrides the input paths from positional arguments:
// the first names the reference, the second the candidate.
func applyInputArgs(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Reference.Path = args[0]
	}
	if len(args) > 1 {
		cfg.Candidate.Path = args[1]
	}
}

// applyLabelFlags overrides the input labels from --ref-label/--cand-label.
func applyLabelFlags(cmd *cobra.Command, cfg *config.Config, refLabel, candLabel string) {
	if cmd.Flags().Changed("ref-label") {
		cfg.Reference.Label = refLabel
	}
	if cmd.Flags().Changed("cand-label") {
		cfg.Candidate.Label = candLabel
	}
}

// loadDocuments reads both inputs named by cfg.
func loadDocuments(cfg config.Config, logger *zap.Logger, formatter *OutputFormatter) (Documents, error) {
	ref, err := loadDocument(cfg.Reference, logger, formatter)
	if err != nil {
		return Documents{}, err
	}
	cand, err := loadDocument(cfg.Candidate, logger, formatter)
	if err != nil {
		return Documents{}, err
	}
	return Documents{Reference: ref, Candidate: cand}, nil
}

func loadDocument(in config.Input, logger *zap.Logger, formatter *OutputFormatter) (value.Value, error) {
	logger.Debug("Loading document", zap.String("label", in.Label), zap.String("path", in.Path))

	doc, err := value.LoadFile(in.Path)
	if err == nil {
		return doc, nil
	}

	details := map[string]string{"label": in.Label, "path": in.Path}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, formatter.CommandErrorDetails(ErrCodeNotFound, fmt.Sprintf("%s document not found", in.Label), err, details)
	case errors.Is(err, value.ErrInvalidJSON):
		return nil, formatter.CommandErrorDetails(ErrCodeInvalidJSON, fmt.Sprintf("%s document is not valid JSON", in.Label), err, details)
	default:
		return nil, formatter.CommandErrorDetails(ErrCodeGeneric, fmt.Sprintf("failed to load %s document", in.Label), err, details)
	}
}
