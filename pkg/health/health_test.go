package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func upCheck(ctx context.Context) ComponentHealth {
	return ComponentHealth{Status: StatusUp}
}

func downCheck(ctx context.Context) ComponentHealth {
	return ComponentHealth{Status: StatusDown, Message: "unreachable"}
}

func TestRunAggregatesWorstStatus(t *testing.T) {
	c := NewChecker()
	c.Register("a", upCheck)
	c.Register("b", upCheck)

	report := c.Run(context.Background())
	if report.Status != StatusUp {
		t.Errorf("expected up, got %s", report.Status)
	}
	if len(report.Components) != 2 {
		t.Errorf("expected 2 components, got %d", len(report.Components))
	}

	c.Register("c", func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: StatusDegraded}
	})
	if report := c.Run(context.Background()); report.Status != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.Status)
	}

	c.Register("d", downCheck)
	if report := c.Run(context.Background()); report.Status != StatusDown {
		t.Errorf("expected down, got %s", report.Status)
	}
}

func TestRunWithNoChecks(t *testing.T) {
	c := NewChecker()
	if report := c.Run(context.Background()); report.Status != StatusUp {
		t.Errorf("empty checker should report up, got %s", report.Status)
	}
}

func TestLiveHandlerAlwaysOK(t *testing.T) {
	c := NewChecker()
	c.Register("broken", downCheck)

	rec := httptest.NewRecorder()
	c.LiveHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("liveness must not depend on checks, got %d", rec.Code)
	}
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	c := NewChecker()
	c.Register("dep", upCheck)

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 when all checks pass, got %d", rec.Code)
	}

	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Components["dep"].Status != StatusUp {
		t.Errorf("unexpected component status: %+v", report.Components)
	}

	c.Register("broken", downCheck)
	rec = httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 with a failing check, got %d", rec.Code)
	}
}
