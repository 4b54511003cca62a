package hotpepper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenmiya/gurume/internal/model"
)

const sampleBody = `{
  "results": {
    "results_available": 123,
    "results_returned": "2",
    "results_start": 1,
    "shop": [
      {
        "id": "J001",
        "name": "Izakaya Hanako",
        "address": "Tokyo, Chiyoda",
        "station_name": "Tokyo",
        "lat": 35.681,
        "lng": 139.767,
        "access": "1 min from Tokyo Sta.",
        "open": "11:00～23:00",
        "catch": "fresh fish daily",
        "capacity": 40,
        "genre": {"name": "Izakaya"},
        "budget": {"name": "3001～4000円", "average": "3500円"},
        "photo": {"pc": {"l": "https://img.example/p1.jpg"}, "mobile": {"l": "https://img.example/m1.jpg"}},
        "urls": {"pc": "https://shop.example/J001"},
        "card": "利用可",
        "parking": "なし"
      },
      {
        "id": "J002",
        "name": "Ramen Taro",
        "capacity": "20席",
        "genre": {"name": "Ramen"},
        "budget": {"name": "～1000円", "average": "800円"},
        "photo": {"pc": {"l": ""}, "mobile": {"l": ""}},
        "urls": {"pc": ""}
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL+"/"))
}

func TestFetchPageQueryParameters(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, sampleBody)
	})

	coord := model.Coordinate{Lat: 35.0, Lng: 139.0}
	_, err := client.FetchPage(context.Background(), coord, model.SearchParams{Range: 3, Keyword: "sushi"}, 21, 20)
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.Get("key"))
	assert.Equal(t, "json", got.Get("format"))
	assert.Equal(t, "35", got.Get("lat"))
	assert.Equal(t, "139", got.Get("lng"))
	assert.Equal(t, "3", got.Get("range"))
	assert.Equal(t, "21", got.Get("start"))
	assert.Equal(t, "20", got.Get("count"))
	assert.Equal(t, "sushi", got.Get("keyword"))
}

func TestFetchPageOmitsEmptyKeyword(t *testing.T) {
	var got url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, sampleBody)
	})

	_, err := client.FetchPage(context.Background(), model.Coordinate{}, model.SearchParams{Range: 1}, 1, 20)
	require.NoError(t, err)
	assert.False(t, got.Has("keyword"))
}

func TestFetchPageDecodesShops(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleBody)
	})

	page, err := client.FetchPage(context.Background(), model.Coordinate{}, model.SearchParams{Range: 3}, 1, 20)
	require.NoError(t, err)

	require.Len(t, page.Shops, 2)
	assert.Equal(t, 2, page.Returned)
	assert.Equal(t, 1, page.Start)
	assert.Equal(t, 123, page.Available)

	first := page.Shops[0]
	assert.Equal(t, "J001", first.ID)
	assert.Equal(t, "Izakaya Hanako", first.Name)
	assert.Equal(t, "Izakaya", first.GenreName)
	assert.Equal(t, "3001～4000円", first.BudgetName)
	assert.Equal(t, "https://img.example/p1.jpg", first.PhotoURL)
	assert.Equal(t, "https://img.example/m1.jpg", first.ThumbURL)
	assert.Equal(t, "https://shop.example/J001", first.WebsiteURL)

	// capacity arrives as a number for one shop, a string for the other
	assert.True(t, first.Capacity.IsInt)
	assert.Equal(t, 40, first.Capacity.Int)
	second := page.Shops[1]
	assert.False(t, second.Capacity.IsInt)
	assert.Equal(t, "20席", second.Capacity.Str)
}

func TestFetchPageHTTPStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := client.FetchPage(context.Background(), model.Coordinate{}, model.SearchParams{Range: 3}, 1, 20)
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
}

func TestFetchPageMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>definitely not json</html>")
	})

	_, err := client.FetchPage(context.Background(), model.Coordinate{}, model.SearchParams{Range: 3}, 1, 20)
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestFetchPageMissingCredential(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL+"/"))
	_, err := client.FetchPage(context.Background(), model.Coordinate{}, model.SearchParams{Range: 3}, 1, 20)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.False(t, hit, "no request should be issued without a key")
}

func TestFetchPageNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient("test-key", WithBaseURL(srv.URL+"/"))
	_, err := client.FetchPage(context.Background(), model.Coordinate{}, model.SearchParams{Range: 3}, 1, 20)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestFetchPageCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleBody)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPage(ctx, model.Coordinate{}, model.SearchParams{Range: 3}, 1, 20)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, ReasonCancelled, netErr.Reason)
	assert.True(t, errors.Is(err, context.Canceled))
}
