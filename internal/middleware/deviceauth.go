package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/tmackey/wortwatch/internal/device"
	"github.com/tmackey/wortwatch/internal/model"
	"github.com/tmackey/wortwatch/internal/store"
)

type contextKey string

const deviceContextKey contextKey = "device"

// DeviceFromContext returns the authenticated device set by
// RequireDeviceToken, or nil.
func DeviceFromContext(ctx context.Context) *model.Device {
	d, _ := ctx.Value(deviceContextKey).(*model.Device)
	return d
}

// RequireDeviceToken authenticates hardware ingest requests. Devices send
// "Authorization: Bearer <device_id>:<token>"; the token is checked
// against the stored bcrypt hash and last_seen is stamped on success.
func RequireDeviceToken(devices *store.DeviceStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing device token", http.StatusUnauthorized)
				return
			}
			id, token, ok := strings.Cut(strings.TrimPrefix(header, "Bearer "), ":")
			if !ok {
				http.Error(w, "malformed device token", http.StatusUnauthorized)
				return
			}
			deviceID, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				http.Error(w, "malformed device token", http.StatusUnauthorized)
				return
			}

			d, err := devices.GetByID(deviceID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if d == nil || !device.VerifyToken(d.TokenHash, token) {
				http.Error(w, "invalid device token", http.StatusUnauthorized)
				return
			}

			// Best effort; a failed stamp should not reject the reading.
			_ = devices.TouchLastSeen(d.ID)

			ctx := context.WithValue(r.Context(), deviceContextKey, d)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
