package payment

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

func newTestGateway(baseURL string) *CampayGateway {
	return &CampayGateway{
		BaseURL:  baseURL,
		AppUser:  "app-user",
		AppPass:  "app-pass",
		Currency: "XAF",
		HTTP:     &http.Client{Timeout: 5 * time.Second},
	}
}

func campayStub(t *testing.T, status string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "app-user", creds["username"])
		assert.Equal(t, "app-pass", creds["password"])
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("/collect/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token tok-123", r.Header.Get("Authorization"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1500", body["amount"])
		assert.Equal(t, "XAF", body["currency"])
		assert.Equal(t, "237670000000", body["from"])
		assert.Equal(t, "ECO-ref-1", body["external_reference"])
		json.NewEncoder(w).Encode(map[string]string{"reference": "gw-abc"})
	})
	mux.HandleFunc("/transaction/gw-abc/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})
	return httptest.NewServer(mux)
}

func TestCampayCollect(t *testing.T) {
	srv := campayStub(t, "PENDING")
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	ref, err := gw.Collect(context.Background(), 1500, "237670000000", "Monthly subscription", "ECO-ref-1")
	require.NoError(t, err)
	assert.Equal(t, "gw-abc", ref)
}

func TestCampayStatus(t *testing.T) {
	srv := campayStub(t, "SUCCESSFUL")
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	status, err := gw.Status(context.Background(), "gw-abc")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESSFUL", status)
}

func TestCampayCollectRejectsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	_, err := gw.Collect(context.Background(), 1500, "237670000000", "Monthly subscription", "ECO-ref-1")
	assert.ErrorContains(t, err, "status 400")
}

func TestCampayTokenFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	_, err := gw.Status(context.Background(), "gw-abc")
	assert.ErrorContains(t, err, "token request returned status 401")
}
