package routing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSink publishes the percentage by rewriting an experiment's
// rollout_perc in a YAML document. The write is atomic (temp file then
// rename) and other experiments in the document are preserved.
type FileSink struct {
	path       string
	experiment string
	logger     *slog.Logger
}

// experimentEntry is one experiment in the routing document.
type experimentEntry struct {
	RolloutPerc float64 `yaml:"rollout_perc"`
}

// routingDoc is the on-disk document layout.
type routingDoc struct {
	Experiments map[string]experimentEntry `yaml:"experiments"`
}

// NewFileSink creates a sink writing to the YAML document at path.
func NewFileSink(path, experiment string, logger *slog.Logger) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("routing file path is required")
	}
	if experiment == "" {
		return nil, fmt.Errorf("routing experiment name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileSink{
		path:       path,
		experiment: experiment,
		logger:     logger.With("component", "routing"),
	}, nil
}

// ApplyPercentage updates the experiment's rollout_perc in place.
// A missing document is created; a present one keeps its other
// experiments untouched.
func (s *FileSink) ApplyPercentage(ctx context.Context, percentage float64) error {
	doc := routingDoc{Experiments: map[string]experimentEntry{}}

	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read routing file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse routing file: %w", err)
		}
		if doc.Experiments == nil {
			doc.Experiments = map[string]experimentEntry{}
		}
	}

	doc.Experiments[s.experiment] = experimentEntry{RolloutPerc: percentage}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode routing file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp routing file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp routing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp routing file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace routing file: %w", err)
	}

	s.logger.Info("updated job routing",
		"experiment", s.experiment,
		"percentage", percentage,
		"path", s.path,
	)

	return nil
}
