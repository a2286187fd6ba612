package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/routeplanner"
)

func cityMap(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "examples", "city", "map.yaml"))
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		x, y    float64
		wantErr bool
	}{
		{in: "10,20", x: 10, y: 20},
		{in: " 0 , 100 ", x: 0, y: 100},
		{in: "12.5,99.9", x: 12.5, y: 99.9},
		{in: "10", wantErr: true},
		{in: "1,2,3", wantErr: true},
		{in: "a,2", wantErr: true},
		{in: "50,101", wantErr: true},
		{in: "-1,0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parsePoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestRouteCommand(t *testing.T) {
	out, logs, err := execute(t, "route",
		"--map", cityMap(t),
		"--start", "0,0",
		"--end", "100,100",
		"--relaxation", "improving",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Route: 5 nodes, 1324.3 m")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[1], "node 1 ")
	assert.Contains(t, lines[5], "node 12 ")
	assert.Contains(t, logs, "map loaded")
}

func TestRouteCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad point", []string{"route", "--map", cityMap(t), "--start", "0", "--end", "1,1"}, "--start"},
		{"bad relaxation", []string{"route", "--map", cityMap(t), "--start", "0,0", "--end", "1,1", "--relaxation", "greedy"}, "Relaxation"},
		{"missing map", []string{"route", "--start", "0,0", "--end", "1,1"}, "Map"},
		{"missing start", []string{"route", "--map", cityMap(t), "--end", "1,1"}, "start"},
		{"expansion limit", []string{"route", "--map", cityMap(t), "--start", "0,0", "--end", "100,100", "--max-expansions", "1"}, "expansion limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBatchCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "routeplanner.yaml")
	cfg := "map: " + cityMap(t) + `
relaxation: improving
log:
  format: json
queries:
  - start: [0, 0]
    end: [100, 100]
  - start: [50, 75]
    end: [50, 75]
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, logs, err := execute(t, "batch", "--config", cfgPath, "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DISTANCE (m)")
	assert.Contains(t, lines[1], "1324.3")
	assert.Contains(t, lines[2], "found")
	assert.Contains(t, logs, `"msg":"batch finished"`)
	assert.Contains(t, logs, `"found":2`)
}

func TestBatchCommand_ExampleConfig(t *testing.T) {
	// the working directory is cmd/routeplanner; the config's map path is
	// relative to the config file
	out, _, err := execute(t, "batch", "--config", filepath.Join("..", "..", "examples", "city", "routeplanner.yaml"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "1324.3")
}

func TestBatchCommand_NoQueries(t *testing.T) {
	_, _, err := execute(t, "batch", "--map", cityMap(t))
	assert.EqualError(t, err, "config has no queries")
}

func TestServeMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := routeplanner.NewMetrics(registry)
	metrics.SearchesTotal.WithLabelValues(routeplanner.OutcomeFound).Inc()

	addr, stop, err := serveMetrics("127.0.0.1:0", registry, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer stop()

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `routeplanner_searches_total{outcome="found"} 1`)
}

func TestServeMetrics_BadAddr(t *testing.T) {
	_, _, err := serveMetrics("127.0.0.1:-1", prometheus.NewRegistry(), slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "listen metrics")
}
