package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*TernaryClient, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewTernaryClient(TernaryConfig{
		BaseURL:   srv.URL,
		TenantID:  "tenant-1",
		ProjectID: "391835788720",
		APIKey:    "test-key",
		Now:       fixedNow,
	}, testLogger())
	if err != nil {
		t.Fatalf("NewTernaryClient: %v", err)
	}

	return client, srv
}

func creditsResponse(credits float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"response":[{"credits":%f}]}`, credits)
	}
}

func TestCurrentPeriodSpend(t *testing.T) {
	var gotQuery analyticsQuery
	var gotAuth, gotTenant string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.URL.Query().Get("tenant_id")
		if err := json.NewDecoder(r.Body).Decode(&gotQuery); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// The API reports consumption as a negative amount.
		fmt.Fprint(w, `{"response":[{"credits":-123456.78}]}`)
	})

	spend, err := client.CurrentPeriodSpend(context.Background())
	if err != nil {
		t.Fatalf("CurrentPeriodSpend: %v", err)
	}

	if spend != 123456.78 {
		t.Errorf("spend = %v, want absolute value 123456.78", spend)
	}
	if gotAuth != "test-key" {
		t.Errorf("Authorization = %q, want API key", gotAuth)
	}
	if gotTenant != "tenant-1" {
		t.Errorf("tenant_id = %q, want tenant-1", gotTenant)
	}
	if gotQuery.StartTime != "2025-06-01T00:00:00.000Z" {
		t.Errorf("start_time = %q, want start of month", gotQuery.StartTime)
	}
	if gotQuery.DataSource != "Billing" {
		t.Errorf("data_source = %q, want Billing", gotQuery.DataSource)
	}
	if len(gotQuery.PreAggFilters) != 1 || gotQuery.PreAggFilters[0].Values[0] != "391835788720" {
		t.Errorf("pre_agg_filters = %+v, want project filter", gotQuery.PreAggFilters)
	}
}

func TestRecentSpendRate(t *testing.T) {
	var gotQuery analyticsQuery

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotQuery); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"response":[{"credits":-4500}]}`)
	})

	rate, err := client.RecentSpendRate(context.Background(), 3)
	if err != nil {
		t.Fatalf("RecentSpendRate: %v", err)
	}

	if rate != 1500 {
		t.Errorf("rate = %v, want 4500/3 = 1500", rate)
	}
	if gotQuery.StartTime != "2025-06-07T00:00:00.000Z" {
		t.Errorf("start_time = %q, want 3 days before last midnight", gotQuery.StartTime)
	}
	if gotQuery.EndTime != "2025-06-10T00:00:00.000Z" {
		t.Errorf("end_time = %q, want last midnight", gotQuery.EndTime)
	}
}

func TestRecentSpendRate_InvalidLookback(t *testing.T) {
	client, _ := newTestClient(t, creditsResponse(-100))

	if _, err := client.RecentSpendRate(context.Background(), 0); err == nil {
		t.Error("expected error for zero lookback days")
	}
}

func TestQuery_EmptyResponseMeansNoSpend(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":[]}`)
	})

	spend, err := client.CurrentPeriodSpend(context.Background())
	if err != nil {
		t.Fatalf("CurrentPeriodSpend: %v", err)
	}
	if spend != 0 {
		t.Errorf("spend = %v, want 0 for empty response", spend)
	}
}

func TestQuery_MissingCredits(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":[{"projectId":"x"}]}`)
	})

	if _, err := client.CurrentPeriodSpend(context.Background()); err == nil {
		t.Error("expected error for response without credits")
	}
}

func TestQuery_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tenant not found", http.StatusForbidden)
	})

	if _, err := client.CurrentPeriodSpend(context.Background()); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestNewTernaryClient_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  TernaryConfig
	}{
		{"missing API key", TernaryConfig{TenantID: "t", ProjectID: "p"}},
		{"missing tenant", TernaryConfig{APIKey: "k", ProjectID: "p"}},
		{"missing project", TernaryConfig{APIKey: "k", TenantID: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTernaryClient(tt.cfg, testLogger()); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}
