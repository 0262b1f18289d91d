package internal

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vision-pilot/contract"
	"vision-pilot/mocks"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var blockedDecision = contract.AuditRecord{
	Key:       "audit:decision:00000000000000000042:a1b2c3d4e5f6",
	Kind:      "decision",
	CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	Fields: map[string]any{
		"action_id": "a1b2c3d4e5f6",
		"status":    "BLOCKED",
		"risk":      "CRITICAL",
		"reason":    "",
	},
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestToInspectRow(t *testing.T) {
	req := require.New(t)
	row := ToInspectRow(blockedDecision)

	req.Equal("DECISION", row.Kind)
	req.Equal("a1b2c3d4", row.EntityID)
	req.Equal("12:30:00.000", row.Timestamp)
	// Empty fields are left out, the others sorted by name
	req.Equal("risk=CRITICAL status=BLOCKED", row.Detail)
}

func TestDebugMux(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockAuditRepository(ctrl)
	reg := prometheus.NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "pilot_test_total", Help: "test"}).Inc()

	srv := httptest.NewServer(NewDebugMux(audit, reg, func() map[string]any {
		return map[string]any{"runs": 3}
	}))
	defer srv.Close()

	audit.EXPECT().ListRecent("audit:decision:", 5).Return([]contract.AuditRecord{blockedDecision}, nil)
	status, body := get(t, srv, "/inspect?prefix=audit:decision:&limit=5")
	req.Equal(http.StatusOK, status)
	req.Contains(body, "a1b2c3d4")
	req.Contains(body, "runs: 3")

	audit.EXPECT().ListRecent("audit:", defaultInspectLimit).Return([]contract.AuditRecord{blockedDecision}, nil)
	status, body = get(t, srv, "/audit")
	req.Equal(http.StatusOK, status)
	req.Contains(body, `"Kind":"decision"`)

	status, body = get(t, srv, "/metrics")
	req.Equal(http.StatusOK, status)
	req.Contains(body, "pilot_test_total 1")

	status, body = get(t, srv, "/stats")
	req.Equal(http.StatusOK, status)
	req.JSONEq(`{"runs":3}`, body)
}

func TestDebugMux_WithoutAudit(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(NewDebugMux(nil, nil, nil))
	defer srv.Close()

	status, _ := get(t, srv, "/inspect")
	req.Equal(http.StatusInternalServerError, status)
	status, _ = get(t, srv, "/metrics")
	req.Equal(http.StatusNotFound, status)
}

type searchableAudit struct {
	*mocks.MockAuditRepository
	*mocks.MockAuditSearcher
}

func TestDebugMux_Search(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockAuditSearcher(ctrl)
	audit := searchableAudit{MockAuditRepository: mocks.NewMockAuditRepository(ctrl), MockAuditSearcher: searcher}

	srv := httptest.NewServer(NewDebugMux(audit, nil, nil))
	defer srv.Close()

	// Given a query restricted to decisions
	searcher.EXPECT().Search(gomock.Any(), "shutdown", "decision", 10).Return([]contract.AuditRecord{blockedDecision}, nil)
	status, body := get(t, srv, "/search?q=shutdown&kind=decision&limit=10")

	// Then the hits come back as rows
	req.Equal(http.StatusOK, status)
	req.Contains(body, `"EntityID":"a1b2c3d4"`)

	status, _ = get(t, srv, "/search")
	req.Equal(http.StatusBadRequest, status)
}

func TestDebugMux_SearchNeedsIndex(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	srv := httptest.NewServer(NewDebugMux(mocks.NewMockAuditRepository(ctrl), nil, nil))
	defer srv.Close()

	status, _ := get(t, srv, "/search?q=save")
	req.Equal(http.StatusNotFound, status)
}
