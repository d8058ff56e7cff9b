package pumpfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID_UnmarshalJSON(t *testing.T) {
	var record struct {
		ID FlexID `json:"_id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"_id": "abc123"}`), &record))
	assert.Equal(t, "abc123", record.ID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"_id": 987654}`), &record))
	assert.Equal(t, "987654", record.ID.String())

	require.NoError(t, json.Unmarshal([]byte(`{"_id": null}`), &record))
	assert.Equal(t, "", record.ID.String())

	assert.Error(t, json.Unmarshal([]byte(`{"_id": [1]}`), &record))
}

func TestToken_StartTimeUTC(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "rfc3339 with offset",
			startTime: "2026-03-14T18:00:00+03:00",
			want:      time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		},
		{
			name:      "rfc3339 zulu",
			startTime: "2026-03-14T15:00:00Z",
			want:      time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		},
		{
			name:      "naive timestamp taken as UTC",
			startTime: "2026-03-14T15:00:00",
			want:      time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		},
		{
			name:      "naive with fraction",
			startTime: "2026-03-14T15:00:00.500000",
			want:      time.Date(2026, 3, 14, 15, 0, 0, 500000000, time.UTC),
		},
		{name: "empty", startTime: "", wantErr: true},
		{name: "garbage", startTime: "not-a-time", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Token{ID: "t1", StartTime: tt.startTime}.StartTimeUTC()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.UTC, got.Location())
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestToken_DisplayFallbacks(t *testing.T) {
	token := Token{}
	assert.Equal(t, "?", token.DisplayName())
	assert.Equal(t, "?", token.DisplaySymbol())

	token = Token{Name: "  ", Symbol: "\t"}
	assert.Equal(t, "?", token.DisplayName())
	assert.Equal(t, "?", token.DisplaySymbol())

	token = Token{Name: "Pi Coin", Symbol: "PI"}
	assert.Equal(t, "Pi Coin", token.DisplayName())
	assert.Equal(t, "PI", token.DisplaySymbol())
}

func TestToken_HasContractAddress(t *testing.T) {
	assert.False(t, Token{}.HasContractAddress())
	assert.False(t, Token{ContractAddress: "   "}.HasContractAddress())
	assert.True(t, Token{ContractAddress: "0xABC"}.HasContractAddress())
}

func TestUpcomingQuery(t *testing.T) {
	q := UpcomingQuery(50)
	assert.True(t, q.IsUpcoming)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 50, q.PageSize)
	assert.Equal(t, "asc", q.SortOrder)
	assert.Equal(t, "start_time", q.SortBy)
}

func TestListTokens(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tokens", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		// Numeric _id and null contract_address both appear in the wild.
		w.Write([]byte(`{
			"items": [
				{"_id": 42, "name": "Pi Coin", "symbol": "PI",
				 "start_time": "2026-03-14T15:00:00", "contract_address": null},
				{"_id": "abc", "name": "Tau", "symbol": "TAU",
				 "start_time": "2026-03-14T16:00:00Z", "contract_address": "0xABC"}
			],
			"total": 2, "page": 1, "page_size": 50
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	resp, err := client.ListTokens(context.Background(), UpcomingQuery(50))
	require.NoError(t, err)

	assert.Equal(t, []string{"true"}, gotQuery["is_upcoming"])
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{"50"}, gotQuery["page_size"])
	assert.Equal(t, []string{"asc"}, gotQuery["sort_order"])
	assert.Equal(t, []string{"start_time"}, gotQuery["sort_by"])

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "42", resp.Items[0].ID.String())
	assert.False(t, resp.Items[0].HasContractAddress())
	assert.Equal(t, "abc", resp.Items[1].ID.String())
	assert.True(t, resp.Items[1].HasContractAddress())
	assert.Equal(t, 2, resp.Total)
}

func TestListTokens_FullQueryOmitsUpcomingFilter(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items": [], "total": 0, "page": 1, "page_size": 50}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.ListTokens(context.Background(), FullQuery(50))
	require.NoError(t, err)

	_, filtered := gotQuery["is_upcoming"]
	assert.False(t, filtered)
}

func TestListTokens_FeedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.ListTokens(context.Background(), UpcomingQuery(50))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestListTokens_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.ListTokens(context.Background(), UpcomingQuery(50))
	assert.Error(t, err)
}

func TestMakeRequest_CancelledContext(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.MakeRequest(ctx, "GET", "/tokens")
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
}
