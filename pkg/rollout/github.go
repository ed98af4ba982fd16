package rollout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// commentURLPattern matches GitHub issue comment permalinks like
	// https://github.com/org/repo/issues/5132#issuecomment-2076772891
	commentURLPattern = regexp.MustCompile(`github\.com/([^/]+/[^/]+)/issues/(\d+)#issuecomment-(\d+)`)

	// experimentsBlockPattern extracts the experiments YAML block from
	// a comment body, up to the first blank line or end of body.
	experimentsBlockPattern = regexp.MustCompile(`(?s)(experiments:.*?)(?:\n\s*\n|$)`)
)

// CommentConfig configures a CommentSource.
type CommentConfig struct {
	// Repo is the "owner/name" repository holding the comment.
	Repo string

	// CommentID is the issue comment ID.
	CommentID int64

	// Experiment is the experiment key whose rollout_perc is read.
	Experiment string

	// Token is the GitHub API token; optional for public repos.
	Token string

	// BaseURL overrides the GitHub API endpoint, for testing.
	// Default: "https://api.github.com"
	BaseURL string

	// Timeout bounds each request. Default: 10 seconds.
	Timeout time.Duration
}

// CommentSource reads the baseline percentage from a YAML experiments
// block published in a GitHub issue comment.
type CommentSource struct {
	config CommentConfig
	client *http.Client
	logger *slog.Logger
}

// NewCommentSource creates a comment-backed baseline source.
func NewCommentSource(cfg CommentConfig, logger *slog.Logger) (*CommentSource, error) {
	if cfg.Repo == "" {
		return nil, fmt.Errorf("rollout repo is required")
	}
	if cfg.CommentID == 0 {
		return nil, fmt.Errorf("rollout comment ID is required")
	}
	if cfg.Experiment == "" {
		return nil, fmt.Errorf("rollout experiment name is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CommentSource{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "rollout"),
	}, nil
}

// ParseCommentURL extracts the repository, issue number, and comment ID
// from a GitHub comment permalink.
func ParseCommentURL(url string) (repo string, issue int, commentID int64, err error) {
	m := commentURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", 0, 0, fmt.Errorf("invalid GitHub comment URL: %q", url)
	}

	issue, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid issue number in %q: %w", url, err)
	}
	commentID, err = strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid comment ID in %q: %w", url, err)
	}

	return m[1], issue, commentID, nil
}

// BaselinePercentage fetches the comment body and extracts the
// experiment's rollout_perc value.
func (s *CommentSource) BaselinePercentage(ctx context.Context) (float64, error) {
	body, err := s.fetchCommentBody(ctx)
	if err != nil {
		return 0, err
	}

	pct, err := ParseRolloutPercentage(body, s.config.Experiment)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("fetched published rollout percentage",
		"experiment", s.config.Experiment,
		"rollout_perc", pct,
	)

	return pct, nil
}

// fetchCommentBody retrieves the issue comment body via the GitHub API.
func (s *CommentSource) fetchCommentBody(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/issues/comments/%d",
		s.config.BaseURL, s.config.Repo, s.config.CommentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create comment request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "token "+s.config.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("comment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("comment request returned %d: %s", resp.StatusCode, snippet)
	}

	var comment struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&comment); err != nil {
		return "", fmt.Errorf("failed to decode comment: %w", err)
	}

	return comment.Body, nil
}

// experimentsDoc mirrors the published YAML layout:
//
//	experiments:
//	  lf:
//	    rollout_perc: 35
type experimentsDoc struct {
	Experiments map[string]struct {
		RolloutPerc float64 `yaml:"rollout_perc"`
	} `yaml:"experiments"`
}

// ParseRolloutPercentage extracts rollout_perc for an experiment from
// the YAML block embedded in a comment body. Markdown code fences
// around the block are tolerated.
func ParseRolloutPercentage(body, experiment string) (float64, error) {
	m := experimentsBlockPattern.FindStringSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("no YAML experiments block found in comment")
	}

	block := strings.TrimSpace(strings.ReplaceAll(m[1], "```", ""))

	var doc experimentsDoc
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return 0, fmt.Errorf("failed to parse experiments block: %w", err)
	}

	exp, ok := doc.Experiments[experiment]
	if !ok {
		return 0, fmt.Errorf("experiment %q not found in experiments block", experiment)
	}

	return exp.RolloutPerc, nil
}
