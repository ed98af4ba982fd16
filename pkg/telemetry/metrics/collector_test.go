package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollector_Exposition(t *testing.T) {
	c := NewCollector(nil)

	c.RecordCycle("success", 120*time.Millisecond)
	c.RecordDecision(56.5, 150000, 158064.5, 1.6)
	c.RecordComponents(3.2, 0.6, -0.1)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)

	for _, want := range []string{
		`creditgov_cycles_total{result="success"} 1`,
		`creditgov_routed_percentage 56.5`,
		`creditgov_current_spend_credits 150000`,
		`creditgov_regulator_component{term="proportional"} 3.2`,
		`creditgov_regulator_component{term="derivative"} -0.1`,
		"creditgov_cycle_duration_seconds",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestCollector_IsolatedRegistries(t *testing.T) {
	a := NewCollector(nil)
	b := NewCollector(nil)

	a.RecordCycle("success", time.Millisecond)
	b.RecordCycle("failure", time.Millisecond)

	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), `result="success"`) {
		t.Error("collector b exposed collector a's series")
	}
}
