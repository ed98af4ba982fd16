package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("config.yaml", "budget.total_credits: total credits must be positive")
	if !strings.Contains(err.Error(), "config.yaml") {
		t.Errorf("error %q does not name the field", err.Error())
	}
}

func TestCommandError(t *testing.T) {
	inner := errors.New("billing API unavailable")
	err := NewCommandError("run", inner)

	if !strings.Contains(err.Error(), "run") {
		t.Errorf("error %q does not name the command", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("CommandError does not unwrap to the inner error")
	}
}
