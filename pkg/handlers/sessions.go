package handlers

import (
	"crypto/sha1"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"

	"github.com/windwizard/windwizard/pkg/metrics"
)

const (
	sessionName = "windwizard"
	userIDKey   = "userid"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

var store = &sessions.CookieStore{
	Codecs: securecookie.CodecsFromPairs(
		deriveKey("SESSION_KEY"),
		deriveKey("ENCRYPTION_KEY"),
	),
	Options: &sessions.Options{
		Path:     "/",
		MaxAge:   defaultMaxAge,
		Secure:   true,
		HttpOnly: true,
	},
}

func init() {
	store.MaxAge(defaultMaxAge)
}

// withSession counts the request against the session's user id, if any, and
// keeps the session cookie fresh.
func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[userIDKey])
		if err := session.Save(r, w); err != nil {
			log.Println("save session err", err)
		}
		next.ServeHTTP(w, r)
	})
}

// rememberUser pins a user id to the session so later requests count
// against it.
func rememberUser(w http.ResponseWriter, r *http.Request, userID string) {
	session, _ := store.Get(r, sessionName)
	session.Values[userIDKey] = userID
	if err := session.Save(r, w); err != nil {
		log.Println("save session err", err)
	}
}

func deriveKey(envKey string) []byte {
	password := os.Getenv(envKey)
	if password == "" {
		// Still usable for local runs; cookies just don't survive a restart
		// with a different process environment.
		password = envKey
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}
