package notify

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSMS(t *testing.T) {
	var gotPath, gotBody string
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotBody = r.PostForm.Encode()
		fmt.Fprint(w, `{"sid": "SM123"}`)
	}))
	defer srv.Close()

	c := New(Config{TwilioSID: "AC1", TwilioToken: "tok", TwilioFrom: "+4500000000"})
	c.TwilioBaseURL = srv.URL

	sid, err := c.SendSMS("+4512345678", "wind is up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sid != "SM123" {
		t.Errorf("got sid %q, want SM123", sid)
	}
	if gotPath != "/2010-04-01/Accounts/AC1/Messages.json" {
		t.Errorf("requested path %q", gotPath)
	}
	if gotUser != "AC1" || gotPass != "tok" {
		t.Errorf("basic auth %q:%q", gotUser, gotPass)
	}
	want := "Body=wind+is+up&From=%2B4500000000&To=%2B4512345678"
	if gotBody != want {
		t.Errorf("got body %q, want %q", gotBody, want)
	}
}

func TestSendSMSNotConfigured(t *testing.T) {
	c := New(Config{})
	c.HTTPClient = nil

	if _, err := c.SendSMS("+4512345678", "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("got %v, want ErrNotConfigured", err)
	}
}

func TestSendEmail(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(Config{SendGridKey: "SG.key", SendGridFrom: "wizard@example.com"})
	c.SendGridBaseURL = srv.URL

	code, err := c.SendEmail("rider@example.com", "stoke alert", "go ride")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != http.StatusAccepted {
		t.Errorf("got status %d, want 202", code)
	}
	if gotPath != "/v3/mail/send" {
		t.Errorf("requested path %q", gotPath)
	}
	if gotAuth != "Bearer SG.key" {
		t.Errorf("Authorization header %q", gotAuth)
	}
}

func TestSendEmailRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(Config{SendGridKey: "SG.bad", SendGridFrom: "wizard@example.com"})
	c.SendGridBaseURL = srv.URL

	_, err := c.SendEmail("rider@example.com", "s", "m")
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("got %v, want RemoteError", err)
	}
	if remote.Gateway != "sendgrid" || remote.StatusCode != http.StatusUnauthorized {
		t.Errorf("got %+v", remote)
	}
}
