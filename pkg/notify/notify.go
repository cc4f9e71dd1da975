// Package notify delivers SMS through Twilio and email through SendGrid.
// Both gateways are opaque HTTP collaborators; an unconfigured client
// returns ErrNotConfigured rather than attempting delivery.
package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	TwilioBaseURL   = "https://api.twilio.com"
	SendGridBaseURL = "https://api.sendgrid.com"

	requestTimeout = 10 * time.Second
)

// ErrNotConfigured reports missing gateway credentials.
var ErrNotConfigured = errors.New("notify: gateway not configured")

// RemoteError is a rejection from either gateway.
type RemoteError struct {
	Gateway    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Gateway, e.StatusCode)
}

// Config carries gateway credentials, typically from the environment.
type Config struct {
	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SendGridKey  string
	SendGridFrom string
}

// Client sends notifications. Construct with New.
type Client struct {
	TwilioBaseURL   string
	SendGridBaseURL string
	HTTPClient      *http.Client

	cfg Config
}

func New(cfg Config) *Client {
	return &Client{
		TwilioBaseURL:   TwilioBaseURL,
		SendGridBaseURL: SendGridBaseURL,
		HTTPClient:      &http.Client{Timeout: requestTimeout},
		cfg:             cfg,
	}
}

type twilioResult struct {
	SID string `json:"sid"`
}

// SendSMS delivers a text message and returns the Twilio message SID.
func (c *Client) SendSMS(toNumber, message string) (string, error) {
	if c.cfg.TwilioSID == "" || c.cfg.TwilioToken == "" {
		return "", fmt.Errorf("%w: twilio", ErrNotConfigured)
	}

	form := make(url.Values)
	form.Add("To", toNumber)
	form.Add("From", c.cfg.TwilioFrom)
	form.Add("Body", message)

	addr := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.TwilioBaseURL, c.cfg.TwilioSID)
	req, err := http.NewRequest(http.MethodPost, addr, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.TwilioSID, c.cfg.TwilioToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &RemoteError{Gateway: "twilio", StatusCode: resp.StatusCode}
	}

	var result twilioResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.SID, nil
}

type sendGridMail struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress   `json:"from"`
	Subject string            `json:"subject"`
	Content []sendGridContent `json:"content"`
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendEmail delivers a plain-text email and returns the gateway status code.
func (c *Client) SendEmail(toEmail, subject, message string) (int, error) {
	if c.cfg.SendGridKey == "" {
		return 0, fmt.Errorf("%w: sendgrid", ErrNotConfigured)
	}

	mail := sendGridMail{
		From:    sendGridAddress{Email: c.cfg.SendGridFrom},
		Subject: subject,
		Content: []sendGridContent{{Type: "text/plain", Value: message}},
	}
	mail.Personalizations = make([]struct {
		To []sendGridAddress `json:"to"`
	}, 1)
	mail.Personalizations[0].To = []sendGridAddress{{Email: toEmail}}

	blob, err := json.Marshal(mail)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, c.SendGridBaseURL+"/v3/mail/send", bytes.NewReader(blob))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SendGridKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &RemoteError{Gateway: "sendgrid", StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}
