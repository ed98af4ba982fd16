// Package config defines the governor's YAML configuration, defaults,
// validation, and environment overrides.
//
// # Overview
//
// Configuration is loaded from a YAML file, filled in with defaults,
// optionally overridden by CREDITGOV_* environment variables, and
// validated as a whole. Validation collects every problem before
// reporting, so a broken file surfaces all of its errors at once.
//
// # Environment Overrides
//
// Environment variables follow the CREDITGOV_SECTION_FIELD convention,
// for example CREDITGOV_BILLING_API_KEY or CREDITGOV_BUDGET_TOTAL_CREDITS.
// They always take precedence over file values and are the expected way
// to inject secrets.
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and delivers
// debounced reload events; the daemon uses it to retune the regulator
// without a restart.
package config
