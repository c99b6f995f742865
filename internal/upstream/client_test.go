package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"casetracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithLocation(time.UTC))
}

func serveBody(t *testing.T, wantPath, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchDailySeries_DropsNullValues(t *testing.T) {
	body := `{"data":[{"cases":{"total":{"value":100}},"date":"2023-01-02"},{"cases":{"total":{"value":null}},"date":"2023-01-01"}]}`
	client := newTestClient(t, serveBody(t, "/us/daily.json", body))

	records, err := client.FetchDailySeries(context.Background(), models.National{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, int64(100), records[0].Count)
}

func TestFetchDailySeries_DropsBadEntries(t *testing.T) {
	body := `{"data":[
		{"cases":{"total":{"value":5}},"date":"2023-01-05"},
		{"cases":{"total":{"value":4}},"date":"01/04/2023"},
		{"cases":{"total":{"value":3}},"date":"2023-13-03"},
		{"cases":"broken","date":"2023-01-02"},
		{"cases":{"total":{}},"date":"2023-01-02"},
		{"cases":{"total":{"value":-5}},"date":"2023-01-02"},
		{"cases":{"total":{"value":1}},"date":"2023-01-01"}
	]}`
	client := newTestClient(t, serveBody(t, "/us/daily.json", body))

	records, err := client.FetchDailySeries(context.Background(), models.National{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(5), records[0].Count)
	assert.Equal(t, int64(1), records[1].Count)
}

func TestFetchDailySeries_PreservesUpstreamOrder(t *testing.T) {
	body := `{"data":[
		{"cases":{"total":{"value":1}},"date":"2023-01-01"},
		{"cases":{"total":{"value":3}},"date":"2023-01-03"},
		{"cases":{"total":{"value":2}},"date":"2023-01-02"}
	]}`
	client := newTestClient(t, serveBody(t, "/us/daily.json", body))

	records, err := client.FetchDailySeries(context.Background(), models.National{})
	require.NoError(t, err)
	counts := make([]int64, 0, len(records))
	for _, r := range records {
		counts = append(counts, r.Count)
	}
	assert.Equal(t, []int64{1, 3, 2}, counts)
}

func TestFetchDailySeries_RegionPathIsLowerCased(t *testing.T) {
	body := `{"data":[]}`
	client := newTestClient(t, serveBody(t, "/states/ca/daily.json", body))

	records, err := client.FetchDailySeries(context.Background(), models.RegionScope{Region: models.Region{Name: "California", Code: "CA"}})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchDailySeries_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing data key", body: `{"rows":[]}`},
		{name: "null data", body: `{"data":null}`},
		{name: "data not an array", body: `{"data":{"cases":1}}`},
		{name: "not json", body: `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, serveBody(t, "/us/daily.json", tt.body))

			records, err := client.FetchDailySeries(context.Background(), models.National{})
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, IsDecodeError(err))
			assert.False(t, IsNetworkError(err))
		})
	}
}

func TestFetchDailySeries_NonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	records, err := client.FetchDailySeries(context.Background(), models.National{})
	require.Error(t, err)
	assert.Nil(t, records)

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.StatusServiceUnavailable, ne.StatusCode)
}

func TestFetchDailySeries_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(WithBaseURL(url))
	_, err := client.FetchDailySeries(context.Background(), models.National{})
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestFetchDailySeries_Idempotent(t *testing.T) {
	body := `{"data":[{"cases":{"total":{"value":7}},"date":"2023-02-01"},{"cases":{"total":{"value":6}},"date":"2023-01-31"}]}`
	client := newTestClient(t, serveBody(t, "/us/daily.json", body))

	first, err := client.FetchDailySeries(context.Background(), models.National{})
	require.NoError(t, err)
	second, err := client.FetchDailySeries(context.Background(), models.National{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFetchRegionList(t *testing.T) {
	client := newTestClient(t, serveBody(t, "/states.json", `{"data":[{"name":"California","state_code":"CA"}]}`))

	regions, err := client.FetchRegionList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Region{{Name: "California", Code: "CA"}}, regions)
}

func TestFetchRegionList_AcceptsEmptyStrings(t *testing.T) {
	client := newTestClient(t, serveBody(t, "/states.json", `{"data":[{"name":"","state_code":"AS"},{"name":"Guam","state_code":""}]}`))

	regions, err := client.FetchRegionList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Region{{Name: "", Code: "AS"}, {Name: "Guam", Code: ""}}, regions)
}

func TestFetchRegionList_OneBadEntryFailsAll(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "wrong type", body: `{"data":[{"name":"California","state_code":"CA"},{"name":42,"state_code":"NY"}]}`},
		{name: "missing code", body: `{"data":[{"name":"California","state_code":"CA"},{"name":"New York"}]}`},
		{name: "null name", body: `{"data":[{"name":null,"state_code":"NY"}]}`},
		{name: "missing data", body: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, serveBody(t, "/states.json", tt.body))

			regions, err := client.FetchRegionList(context.Background())
			require.Error(t, err)
			assert.Nil(t, regions)
			assert.True(t, IsDecodeError(err))
		})
	}
}

func TestURLFor(t *testing.T) {
	client := New(WithBaseURL("https://example.test/v2/"))

	assert.Equal(t, "https://example.test/v2/us/daily.json", client.URLFor(models.National{}))
	assert.Equal(t, "https://example.test/v2/states/ny/daily.json",
		client.URLFor(models.RegionScope{Region: models.Region{Name: "New York", Code: "NY"}}))
}

func TestDailySeriesAsync(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"cases":{"total":{"value":9}},"date":"2023-03-01"}]}`))
	})

	first := client.DailySeriesAsync(context.Background(), models.National{})
	second := client.DailySeriesAsync(context.Background(), models.National{})

	r1 := <-first
	r2 := <-second
	require.NoError(t, r1.Err)
	require.NoError(t, r2.Err)
	assert.Equal(t, r1.Value, r2.Value)
	assert.Equal(t, int32(2), hits.Load())

	_, open := <-first
	assert.False(t, open)
}

func TestRegionListAsync_Error(t *testing.T) {
	client := newTestClient(t, serveBody(t, "/states.json", `{"data":[{"name":""}]}`))

	res := <-client.RegionListAsync(context.Background())
	assert.Nil(t, res.Value)
	assert.True(t, IsDecodeError(res.Err))
}

func TestParseDay(t *testing.T) {
	got, ok := parseDay("2021-07-25", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2021, 7, 25, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2021-7-25", "2021-07-25T00:00:00Z", "25-07-2021", "2021-02-30"} {
		_, ok := parseDay(bad, time.UTC)
		assert.False(t, ok, bad)
	}
}
