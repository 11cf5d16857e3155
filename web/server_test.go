// ABOUTME: Tests for the web UI routes
// ABOUTME: Exercises pages, JSON endpoints and metrics with httptest
package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/kv"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/monitor"
	"github.com/harperreed/painel/prefs"
)

type fakeScreen struct {
	kind  monitor.Kind
	views []monitor.ViewState
}

func (f *fakeScreen) Kind() monitor.Kind { return f.kind }

func (f *fakeScreen) Title() string { return "Production" }

func (f *fakeScreen) Current() monitor.ViewState { return f.views[0] }

func (f *fakeScreen) AllViews() []monitor.ViewState { return f.views }

type fixedAlert struct {
	ev *alert.Event
}

func (f fixedAlert) Last() (alert.Event, bool) {
	if f.ev == nil {
		return alert.Event{}, false
	}
	return *f.ev, true
}

func productionScreen() *fakeScreen {
	now := time.Now()
	return &fakeScreen{kind: monitor.KindProduction, views: []monitor.ViewState{
		{
			Screen: monitor.KindProduction, View: monitor.ViewPending, ViewTitle: "Pending orders", Total: 3,
			Data: monitor.Status{Query: monitor.QueryProductionPending, Ready: true, FetchedAt: now, Seq: 4, Value: []models.ProductionOrder{
				{OrderNumber: "OP-12", ProductName: "Banner <lona>", Quantity: 2, Priority: models.PriorityUrgent, CreatedAt: now},
			}},
		},
		{
			Screen: monitor.KindProduction, View: monitor.ViewInProgress, ViewTitle: "In progress", Index: 1, Total: 3,
			Data: monitor.Status{Query: monitor.QueryProductionActive, Error: "fetch production_in_progress #1 failed: timeout", Failures: 1},
		},
		{
			Screen: monitor.KindProduction, View: monitor.ViewCompleted, ViewTitle: "Completed", Index: 2, Total: 3,
			Data: monitor.Status{Query: monitor.QueryProductionDone, Ready: true, FetchedAt: now, Value: []models.ProductionOrder{}},
		},
	}}
}

func newTestServer(t *testing.T, last *alert.Event) (*httptest.Server, *prefs.Store) {
	t.Helper()
	store := prefs.New(kv.NewTestClient(t))
	srv, err := NewServer([]Screen{productionScreen()}, store, fixedAlert{ev: last}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIndexListsScreens(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `href="/monitor/production"`)
	assert.Contains(t, body, "Pending orders")
	assert.Contains(t, body, "timeout")
}

func TestMonitorPage(t *testing.T) {
	now := time.Now()
	ts, _ := newTestServer(t, &alert.Event{
		Context:  models.ContextProductionMonitor,
		Outcome:  alert.OutcomeBundled,
		Resource: string(models.SoundMachineAttention),
		At:       now,
	})

	code, body := get(t, ts.URL+"/monitor/production")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "OP-12")
	assert.Contains(t, body, "Banner &lt;lona&gt;", "cells are escaped")
	assert.Contains(t, body, "1/3")
	assert.Contains(t, body, "atencao_maquina")
}

func TestMonitorPageUnknownScreen(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, _ := get(t, ts.URL+"/monitor/kitchen")
	assert.Equal(t, http.StatusNotFound, code)

	code, body := get(t, ts.URL+"/monitor/management")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "not running")
}

func TestMonitorAPI(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, body := get(t, ts.URL+"/api/monitor/production")
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		View  string `json:"view"`
		Total int    `json:"total"`
		Data  struct {
			Ready bool   `json:"ready"`
			Seq   uint64 `json:"seq"`
		} `json:"data"`
		Table struct {
			Rows [][]string `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "pending", resp.View)
	assert.Equal(t, 3, resp.Total)
	assert.True(t, resp.Data.Ready)
	assert.Equal(t, uint64(4), resp.Data.Seq)
	require.Len(t, resp.Table.Rows, 1)
	assert.Equal(t, "OP-12", resp.Table.Rows[0][0])
}

func TestMonitorAPISelectView(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, body := get(t, ts.URL+"/api/monitor/production?view=in_progress")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"error":"fetch production_in_progress #1 failed: timeout"`)
	assert.Contains(t, body, `"failures":1`)

	code, _ = get(t, ts.URL+"/api/monitor/production?view=nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAlertsAPI(t *testing.T) {
	ts, store := newTestServer(t, nil)
	require.NoError(t, store.SetAlertMode(models.AlertModeInterval))
	require.NoError(t, store.SetSoundForContext(models.ContextStockAlert, models.SoundLowStock))
	_, err := store.SaveAudioAsset("Sirene", "audio/wav", []byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, store.SetPreferredAudioAsset("Sirene"))

	code, body := get(t, ts.URL+"/api/alerts")
	require.Equal(t, http.StatusOK, code)

	var resp AlertsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, models.AlertModeInterval, resp.Mode)
	assert.Equal(t, models.AudioSourceBundled, resp.Source)
	assert.Equal(t, models.SoundLowStock, resp.Sounds[models.ContextStockAlert])
	assert.Equal(t, "Sirene", resp.Preferred)
	assert.Equal(t, []string{"Sirene"}, resp.Assets)
	assert.Nil(t, resp.Last)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")
}
