package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/spotlists/internal/shared"
)

func TestCookieCodec(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	requestWith := func(c *http.Cookie) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c != nil {
			req.AddCookie(c)
		}
		return req
	}

	t.Run("Round Trip", func(t *testing.T) {
		codec := NewCookieCodec("sid", secret, time.Hour, true)

		cookie, err := codec.Encode("session-1")
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}

		if cookie.Name != "sid" || !cookie.HttpOnly || !cookie.Secure {
			t.Errorf("unexpected cookie attributes: %+v", cookie)
		}
		if cookie.MaxAge != 3600 {
			t.Errorf("expected MaxAge 3600, got %d", cookie.MaxAge)
		}

		id, err := codec.Decode(requestWith(cookie))
		if err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if id != "session-1" {
			t.Errorf("expected session-1, got %s", id)
		}
	})

	t.Run("Missing Cookie", func(t *testing.T) {
		codec := NewCookieCodec("sid", secret, time.Hour, false)

		if _, err := codec.Decode(requestWith(nil)); !errors.Is(err, shared.ErrInvalidSession) {
			t.Errorf("expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		codec := NewCookieCodec("sid", secret, time.Hour, false)
		other := NewCookieCodec("sid", []byte("a different secret entirely!!!!!"), time.Hour, false)

		cookie, err := other.Encode("session-1")
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}

		if _, err := codec.Decode(requestWith(cookie)); !errors.Is(err, shared.ErrInvalidSession) {
			t.Errorf("expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		codec := NewCookieCodec("sid", secret, time.Minute, false)

		cookie, err := codec.Encode("session-1")
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}

		codec.now = func() time.Time { return time.Now().Add(time.Hour) }
		if _, err := codec.Decode(requestWith(cookie)); !errors.Is(err, shared.ErrInvalidSession) {
			t.Errorf("expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		codec := NewCookieCodec("sid", secret, time.Hour, false)

		cookie := &http.Cookie{Name: "sid", Value: "not-a-token"}
		if _, err := codec.Decode(requestWith(cookie)); !errors.Is(err, shared.ErrInvalidSession) {
			t.Errorf("expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("Expire", func(t *testing.T) {
		codec := NewCookieCodec("sid", secret, time.Hour, false)

		cookie := codec.Expire()
		if cookie.Name != "sid" || cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Errorf("expected an expiring cookie, got %+v", cookie)
		}
	})
}
