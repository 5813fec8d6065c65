package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/bountyviz/core"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/huangsam/bountyviz/internal/datastore"
	"github.com/huangsam/bountyviz/internal/server"
	"github.com/huangsam/bountyviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var now = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }

func ptrFloat(f float64) *float64 { return &f }

func newTestStore(t *testing.T) contract.BountyStore {
	t.Helper()
	store, err := datastore.NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dataset := schema.Dataset{
		Bounties: []schema.Bounty{{
			ID: 1, StandardBountiesID: 1, Network: "mainnet", Web3Type: "bounties_network", CurrentBounty: true,
			Status: "done", OrgName: "gitcoinco", RepoName: "web", IssueNumber: 1, OwnerUsername: "funder",
			ValueInUSDTThen: 100, ValueInUSDT: 100,
			Web3Created: now.Add(-48 * time.Hour), CreatedOn: now.Add(-48 * time.Hour),
		}},
		Fulfillments: []schema.Fulfillment{{
			ID: 1, BountyID: 1, FulfillerUsername: "alice", Accepted: true, CreatedOn: now.Add(-24 * time.Hour),
			AcceptedOn: ptrTime(now.Add(-24 * time.Hour)), HoursWorked: ptrFloat(10),
		}},
		Stats: []schema.Stat{
			{ID: 1, Key: "email_open", CreatedOn: now.Add(-23 * time.Hour), Val: 5, ValSinceHour: 2, ValSinceYesterday: 4},
		},
		DataPayloads: []schema.DataPayload{
			{ID: 1, Key: "graph", Report: "kudos", Payload: `{"nodes":[],"links":[]}`, Comments: "kudos sent"},
		},
	}
	require.NoError(t, store.Import(context.Background(), dataset))
	return store
}

func newTestHandler(t *testing.T, cfg *contract.Config, store contract.BountyStore) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = contract.DefaultConfig()
		cfg.HidePII = false
	}
	s, err := server.New(cfg, store, core.WithClock(func() time.Time { return now }), core.WithSeed(7))
	require.NoError(t, err)
	return s.Handler()
}

func get(h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDataResponses(t *testing.T) {
	h := newTestHandler(t, nil, newTestStore(t))

	tests := []struct {
		name        string
		path        string
		contentType string
		want        string
		isJSON      bool
	}{
		{"sunburst csv", "/dataviz/sunburst/funders?data=1", "text/csv", "funder,100", false},
		{"sunburst json", "/dataviz/sunburst/funders?data=1&format=json", "application/json", `{"name":"data","children":[{"name":"funder","size":100}]}`, true},
		{"circles unknown format", "/dataviz/circles/funders?data=yes&format=xml", "text/csv", "funder,100", false},
		{"graph stored payload", "/dataviz/graph/kudos?data=1", "application/json", `{"nodes":[],"links":[]}`, true},
		{"heatmap csv", "/dataviz/heatmap/email_open?data=1", "text/csv", "Date,Value\n2024-03-19,1", false},
		{"heatmap json", "/dataviz/heatmap?data=1&format=json", "application/json", `{"data":[{"timestamp":"2024-03-19T01:00:00","value":800}]}`, true},
		{"spiral", "/dataviz/spiral/email_open?data=1", "application/json", `{"data":[{"timestamp":"2024-03-19T01:00:00","value":5}]}`, true},
		{"chord", "/dataviz/chord?data=1", "text/csv", "creditor,debtor,amount,risk\nfunder,alice,100,86400", false},
		{"scatterplot", "/dataviz/scatterplot/hourly_rate?data=1", "text/csv", "hourlyRate,daysBack,username,weight\n10,1,alice,0.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			if tt.isJSON {
				assert.JSONEq(t, tt.want, w.Body.String())
			} else {
				assert.Equal(t, tt.want, w.Body.String())
			}
		})
	}
}

func TestDataResponses_Builtins(t *testing.T) {
	h := newTestHandler(t, nil, newTestStore(t))

	t.Run("sankey builds the accepted network", func(t *testing.T) {
		w := get(h, "/dataviz/sankey/anything?data=1")
		require.Equal(t, http.StatusOK, w.Code)
		var g schema.Graph
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
		require.Len(t, g.Nodes, 2)
		require.Len(t, g.Links, 1)
		for _, l := range g.Links {
			assert.Less(t, l.Source, len(g.Nodes))
			assert.Less(t, l.Target, len(g.Nodes))
		}
	})

	t.Run("steamgraph defaults to the first status", func(t *testing.T) {
		w := get(h, "/dataviz/steamgraph?data=1")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.True(t, strings.HasPrefix(body, "key,value,date\n"))
		assert.Contains(t, body, "gitcoinco,100,03/19/24")
	})

	t.Run("draggable", func(t *testing.T) {
		w := get(h, "/dataviz/draggable?data=1")
		require.Equal(t, http.StatusOK, w.Code)
		var series []schema.BubbleSeries
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &series))
		require.Len(t, series, 1)
		assert.Equal(t, "alice", series[0].Name)
		assert.Len(t, series[0].Income, contract.DefaultDraggableDays-1)
	})
}

func TestPages(t *testing.T) {
	h := newTestHandler(t, nil, newTestStore(t))

	t.Run("sunburst shell", func(t *testing.T) {
		w := get(h, "/dataviz/sunburst/funders")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		body := w.Body.String()
		assert.Contains(t, body, "<title>Funders | bountyviz</title>")
		assert.Contains(t, body, `"viz_type":"funders"`)
		assert.Contains(t, body, `href="/dataviz/sunburst/repos"`)
		assert.Contains(t, body, `data-url="/dataviz/sunburst/funders?data=1"`)
	})

	t.Run("data=0 keeps the shell", func(t *testing.T) {
		w := get(h, "/dataviz/chord?data=0")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"viz_type":"bounties_paid"`)
	})

	t.Run("graph shell carries stored comment", func(t *testing.T) {
		w := get(h, "/dataviz/graph/kudos")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "kudos sent")
	})

	t.Run("sankey offers accepted only", func(t *testing.T) {
		w := get(h, "/dataviz/sankey")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "fulfillments_accepted_only")
		assert.NotContains(t, body, `href="/dataviz/graph/kudos"`)
	})

	t.Run("draggable lists usernames", func(t *testing.T) {
		w := get(h, "/dataviz/draggable")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"usernames":["alice"]`)
	})

	t.Run("index", func(t *testing.T) {
		w := get(h, "/dataviz/")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		for _, name := range []string{"sunburst", "circles", "graph", "sankey", "spiral", "heatmap", "calendar", "chord", "steamgraph", "draggable", "scatterplot"} {
			assert.Contains(t, body, `href="/dataviz/`+name+`"`)
		}
	})
}

func TestStaffGate(t *testing.T) {
	cfg := contract.DefaultConfig()
	cfg.StaffTokens = []string{"s3cret"}
	h := newTestHandler(t, cfg, newTestStore(t))

	tests := []struct {
		name   string
		path   string
		header []string
		want   int
	}{
		{"missing token", "/dataviz/chord?data=1", nil, http.StatusUnauthorized},
		{"wrong token", "/dataviz/chord?data=1", []string{"Authorization", "Bearer nope"}, http.StatusUnauthorized},
		{"wrong scheme", "/dataviz/chord?data=1", []string{"Authorization", "Basic s3cret"}, http.StatusUnauthorized},
		{"valid token", "/dataviz/chord?data=1", []string{"Authorization", "Bearer s3cret"}, http.StatusOK},
		{"scheme is case insensitive", "/dataviz/heatmap", []string{"Authorization", "bearer s3cret"}, http.StatusOK},
		{"index is gated", "/dataviz/", nil, http.StatusUnauthorized},
		{"draggable is public", "/dataviz/draggable?data=1", nil, http.StatusOK},
		{"scatterplot is public", "/dataviz/scatterplot", nil, http.StatusOK},
		{"health is public", "/health", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, tt.path, tt.header...)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStoreFailuresDegrade(t *testing.T) {
	store := &datastore.MockBountyStore{}
	down := errors.New("connection refused")
	store.On("ListBounties", mock.Anything, mock.Anything).Return(nil, down).Maybe()
	store.On("ListFulfillments", mock.Anything, mock.Anything).Return(nil, down).Maybe()
	store.On("DistinctStatuses", mock.Anything).Return(nil, down).Maybe()
	store.On("ListStats", mock.Anything, mock.Anything).Return(nil, down).Maybe()
	store.On("ListDataPayloads", mock.Anything, mock.Anything).Return(nil, down).Maybe()
	h := newTestHandler(t, nil, store)

	tests := []struct {
		path string
		want string
	}{
		{"/dataviz/chord?data=1", "creditor,debtor,amount,risk"},
		{"/dataviz/scatterplot?data=1", "hourlyRate,daysBack,username,weight"},
		{"/dataviz/steamgraph?data=1", "key,value,date"},
		{"/dataviz/heatmap?data=1", "Date,Value"},
		{"/dataviz/sunburst/repos?data=1", ""},
		{"/dataviz/draggable?data=1", "[]"},
		{"/dataviz/spiral?data=1", `{"data":[]}`},
		{"/dataviz/graph?data=1", `{"nodes":[],"links":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(h, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	t.Run("pages still render", func(t *testing.T) {
		for _, path := range []string{"/dataviz/sunburst", "/dataviz/graph", "/dataviz/calendar", "/dataviz/steamgraph", "/dataviz/draggable"} {
			w := get(h, path)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t, nil, newTestStore(t))

	w := get(h, "/health", server.RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(server.RequestIDHeader))

	w = get(h, "/health")
	assert.Len(t, w.Header().Get(server.RequestIDHeader), 36)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, nil, newTestStore(t))
	get(h, "/dataviz/chord?data=1")

	w := get(h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bountyviz_http_requests_total")
}

func TestRun(t *testing.T) {
	t.Run("stops on cancel", func(t *testing.T) {
		cfg := contract.DefaultConfig()
		cfg.ListenAddr = "127.0.0.1:0"
		s, err := server.New(cfg, newTestStore(t))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("reports listen errors", func(t *testing.T) {
		cfg := contract.DefaultConfig()
		cfg.ListenAddr = "127.0.0.1:-1"
		s, err := server.New(cfg, newTestStore(t))
		require.NoError(t, err)
		assert.Error(t, s.Run(context.Background()))
	})
}
