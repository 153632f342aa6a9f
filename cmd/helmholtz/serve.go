package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	helmholtz "github.com/njchilds90/gohelmholtz"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the tool interface over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		addr := fmt.Sprintf(":%d", viper.GetInt("server.port"))
		logger.WithField("addr", addr).Info("helmholtz tool server listening")
		logger.Info("  POST /tool     execute a tool call")
		logger.Info("  GET  /schema   tool schema")
		logger.Info("  GET  /health   health check")
		logger.Info("  GET  /metrics  prometheus metrics")

		srv := &http.Server{
			Addr:              addr,
			Handler:           newHandler(logger, reg),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			<-cmd.Context().Done()
			_ = srv.Close()
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

type metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helmholtz",
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "helmholtz",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"tool"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

// writeJSON encodes v before writing the status. A value JSON cannot
// carry, such as a NaN or Inf result, is answered with 422 and the
// encoder error, which is also returned.
func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "encode result: " + err.Error()})
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// toolLabel bounds the tool metric label to the known tool names.
func toolLabel(name string) string {
	if helmholtz.IsTool(name) {
		return name
	}
	return "unknown"
}

// newHandler wires the tool endpoints and the metrics of reg.
func newHandler(log *logrus.Logger, reg *prometheus.Registry) http.Handler {
	m := newMetrics(reg)
	mux := http.NewServeMux()

	// POST /tool: handle a tool call
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithField("panic", rec).Errorf("panic in /tool\n%s", debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req helmholtz.ToolRequest
		if err := dec.Decode(&req); err != nil {
			_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if dec.More() {
			_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		resp := helmholtz.HandleToolCall(req)
		elapsed := time.Since(start)

		outcome := "ok"
		entry := log.WithFields(logrus.Fields{"tool": req.Tool, "duration": elapsed})
		if resp.Error != "" {
			outcome = "error"
			entry = entry.WithField("error", resp.Error)
		}
		if err := writeJSON(w, http.StatusOK, resp); err != nil && resp.Error == "" {
			outcome = "unencodable"
			entry = entry.WithField("error", err.Error())
		}
		label := toolLabel(req.Tool)
		m.calls.WithLabelValues(label, outcome).Inc()
		m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
		entry.Debug("tool call")
	})

	// GET /schema: tool schema for agent registration
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, helmholtz.ToolSpec())
	})

	// GET /health: liveness check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
