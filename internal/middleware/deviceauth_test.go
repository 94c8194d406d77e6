package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmackey/wortwatch/internal/database"
	"github.com/tmackey/wortwatch/internal/device"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

func setupDeviceAuth(t *testing.T) (*store.DeviceStore, string, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ds := store.NewDeviceStore(db)
	token, hash, err := device.IssueToken()
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	d, err := ds.Create("Tilt Red", model.DeviceHydrometer, hash)
	if err != nil {
		t.Fatalf("create device: %v", err)
	}
	return ds, token, d.ID
}

func TestRequireDeviceTokenValid(t *testing.T) {
	ds, token, id := setupDeviceAuth(t)

	var seen *model.Device
	handler := RequireDeviceToken(ds)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = DeviceFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("POST", "/api/ingest/readings", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %d:%s", id, token))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if seen == nil || seen.ID != id {
		t.Errorf("expected device in context, got %+v", seen)
	}

	got, err := ds.GetByID(id)
	if err != nil {
		t.Fatalf("get device: %v", err)
	}
	if got.LastSeen == nil {
		t.Error("expected last_seen stamp after authenticated request")
	}
}

func TestRequireDeviceTokenRejections(t *testing.T) {
	ds, token, id := setupDeviceAuth(t)

	handler := RequireDeviceToken(ds)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"no separator", "Bearer justatoken"},
		{"bad id", "Bearer abc:" + token},
		{"unknown device", fmt.Sprintf("Bearer %d:%s", id+100, token)},
		{"wrong token", fmt.Sprintf("Bearer %d:%s", id, "0000000000")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/ingest/readings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
