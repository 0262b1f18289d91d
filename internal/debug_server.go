package internal

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
	"vision-pilot/contract"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

const defaultInspectLimit = 200

type InspectRow struct {
	Key       string
	Kind      string
	Timestamp string
	EntityID  string
	Detail    string
}

type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// NewDebugMux serves the audit inspector on /inspect, the same rows as JSON
// on /audit, the Prometheus registry on /metrics and the stats on /stats.
// A searchable audit store also gets /search?q=.
func NewDebugMux(audit contract.AuditRepository, gatherer prometheus.Gatherer, stats StatsProvider) *http.ServeMux {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		records, prefix, err := listRecords(audit, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data := PageData{Prefix: prefix, Stats: make(map[string]any)}
		if stats != nil {
			data.Stats = stats()
		}
		for _, record := range records {
			data.Items = append(data.Items, ToInspectRow(record))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	mux.HandleFunc("/audit", func(w http.ResponseWriter, r *http.Request) {
		records, _, err := listRecords(audit, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
	})

	// /search needs an audit store built with a full-text index
	if searcher, ok := audit.(contract.AuditSearcher); ok {
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query().Get("q")
			if query == "" {
				http.Error(w, "missing q parameter", http.StatusBadRequest)
				return
			}
			records, err := searcher.Search(r.Context(), query, r.URL.Query().Get("kind"), parseLimit(r))
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, lo.Map(records, func(record contract.AuditRecord, _ int) InspectRow {
				return ToInspectRow(record)
			}))
		})
	}

	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		if stats == nil {
			writeJSON(w, map[string]any{})
			return
		}
		writeJSON(w, stats())
	})

	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func listRecords(audit contract.AuditRepository, r *http.Request) ([]contract.AuditRecord, string, error) {
	if audit == nil {
		return nil, "", fmt.Errorf("no audit store configured")
	}
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = "audit:"
	}
	records, err := audit.ListRecent(prefix, parseLimit(r))
	return records, prefix, err
}

func parseLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultInspectLimit
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// StartDebugServer listens on every interface until ctx is done.
func StartDebugServer(ctx context.Context, log *slog.Logger, port int, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("Debug server listening", "url", fmt.Sprintf("http://localhost:%d/inspect", port))
	return srv
}

// ToInspectRow flattens a record for display. The entity id is cut to 8 characters.
func ToInspectRow(record contract.AuditRecord) InspectRow {
	row := InspectRow{
		Key:       record.Key,
		Kind:      strings.ToUpper(record.Kind),
		Timestamp: record.CreatedAt.Format("15:04:05.000"),
		EntityID:  "--------",
	}
	for _, field := range []string{"action_id", "result_id"} {
		if id, ok := record.Fields[field].(string); ok && id != "" {
			row.EntityID = id
			break
		}
	}
	if len(row.EntityID) > 8 {
		row.EntityID = row.EntityID[:8]
	}

	keys := make([]string, 0, len(record.Fields))
	for k := range record.Fields {
		if k != "action_id" && k != "result_id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	details := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := record.Fields[k]; v != "" && v != nil {
			details = append(details, fmt.Sprintf("%s=%v", k, v))
		}
	}
	row.Detail = strings.Join(details, " ")
	return row
}
