package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"docbridge/internal/model"
	"docbridge/internal/token"
)

// tokenSource records where a callback token was delivered. The editor nests
// the payload differently per delivery channel: a body token decodes straight
// into the notification, a header token wraps it one level under "payload".
// The distinction is a protocol quirk and must be preserved exactly.
type tokenSource int

const (
	tokenFromBody tokenSource = iota
	tokenFromHeader
)

// callbackAuthenticator verifies inbound editor notifications. With a
// disabled codec the raw body is trusted as-is; callers opt into that
// boundary by not configuring a secret.
type callbackAuthenticator struct {
	codec *token.Codec
}

// Authenticate parses and, when signing is configured, verifies a callback
// body. headerValue is the raw value of the configured token header, empty
// when absent. The returned notification is the verified payload, which
// replaces the untrusted body entirely.
func (a *callbackAuthenticator) Authenticate(body []byte, headerValue string) (*model.CallbackNotification, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty callback body", ErrInvalidInput)
	}

	var notif model.CallbackNotification
	if err := json.Unmarshal(body, &notif); err != nil {
		return nil, fmt.Errorf("%w: malformed callback body: %v", ErrInvalidInput, err)
	}

	if !a.codec.Enabled() {
		return &notif, nil
	}

	var (
		raw    string
		source tokenSource
	)
	switch {
	case notif.Token != "":
		raw = notif.Token
		source = tokenFromBody
	case headerValue != "":
		raw = strings.TrimPrefix(headerValue, "Bearer ")
		source = tokenFromHeader
	default:
		return nil, fmt.Errorf("%w: expected token", ErrAuthFailed)
	}

	claims, err := a.codec.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	payload := any(claims)
	if source == tokenFromHeader {
		wrapped, ok := claims["payload"]
		if !ok {
			return nil, fmt.Errorf("%w: header token is missing its payload", ErrAuthFailed)
		}
		payload = wrapped
	}

	verified, err := decodeNotification(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return verified, nil
}

func decodeNotification(payload any) (*model.CallbackNotification, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("re-encode verified payload: %w", err)
	}
	var notif model.CallbackNotification
	if err := json.Unmarshal(raw, &notif); err != nil {
		return nil, fmt.Errorf("decode verified payload: %w", err)
	}
	return &notif, nil
}
