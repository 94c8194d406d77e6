// Package push sends web push notifications for brew-day and
// fermentation events: hop additions coming due, timers expiring, and
// fermentation alerts.
package push

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/tmackey/wortwatch/internal/model"
)

// ErrExpired is returned when a push subscription is no longer valid (410 Gone).
var ErrExpired = errors.New("push subscription expired")

// Payload is the JSON sent to the push service.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// SubscriptionLister supplies the push endpoints to notify and drops the
// ones the push service reports dead.
type SubscriptionLister interface {
	List() ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// Service sends web push notifications to every registered subscription.
type Service struct {
	publicKey  string
	privateKey string
	subs       SubscriptionLister
	logger     *slog.Logger
}

// NewService creates a push service with VAPID keys. Empty keys leave the
// service disabled; Broadcast becomes a no-op.
func NewService(publicKey, privateKey string, subs SubscriptionLister, logger *slog.Logger) *Service {
	return &Service{
		publicKey:  publicKey,
		privateKey: privateKey,
		subs:       subs,
		logger:     logger,
	}
}

// Enabled reports whether VAPID keys are configured. Safe on a nil
// receiver so callers can hold an unconfigured *Service.
func (s *Service) Enabled() bool {
	return s != nil && s.publicKey != "" && s.privateKey != ""
}

// VAPIDPublicKey returns the VAPID public key for client-side subscription.
func (s *Service) VAPIDPublicKey() string {
	return s.publicKey
}

// Send sends a push notification to a single subscription.
func (s *Service) Send(sub *model.PushSubscription, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotification(data, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		Subscriber:      "mailto:noreply@wortwatch.app",
		TTL:             3600,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		return ErrExpired
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}

	return nil
}

// Broadcast delivers a payload to every subscription, pruning expired
// endpoints as it goes. Delivery failures are logged, not returned; a
// missed notification never fails the triggering operation.
func (s *Service) Broadcast(payload Payload) {
	if !s.Enabled() {
		return
	}

	subs, err := s.subs.List()
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}

	for i := range subs {
		err := s.Send(&subs[i], payload)
		if errors.Is(err, ErrExpired) {
			if err := s.subs.DeleteByEndpoint(subs[i].Endpoint); err != nil {
				s.logger.Error("prune expired subscription", "error", err)
			}
			continue
		}
		if err != nil {
			s.logger.Warn("send push", "endpoint", subs[i].Endpoint, "error", err)
		}
	}
}

// GenerateVAPIDKeys generates a new ECDSA P-256 key pair for VAPID.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate ECDSA key: %w", err)
	}

	pubBytes := elliptic.Marshal(elliptic.P256(), key.PublicKey.X, key.PublicKey.Y)
	publicKey = base64.RawURLEncoding.EncodeToString(pubBytes)
	privateKey = base64.RawURLEncoding.EncodeToString(key.D.Bytes())

	return publicKey, privateKey, nil
}
