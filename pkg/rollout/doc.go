// Package rollout obtains the currently published baseline routing
// percentage.
//
// # Overview
//
// The fleet's rollout configuration lives in a YAML block inside a
// GitHub issue comment. CommentSource fetches the comment through the
// GitHub API and extracts the experiment's rollout_perc value;
// StaticSource serves a fixed value for testing and offline runs.
//
// The controller only uses the baseline as a starting point and clamps
// it defensively, so a slightly stale or out-of-range published value
// cannot push the routing percentage outside [0, 100].
package rollout
