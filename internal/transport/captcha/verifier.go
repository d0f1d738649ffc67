// Package captcha verifies CAPTCHA answers against a remote verification endpoint.
package captcha

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultVerifyURL is the classic reCAPTCHA verification endpoint.
const DefaultVerifyURL = "http://www.google.com/recaptcha/api/verify"

// Config holds verifier settings. In test mode every answer passes.
type Config struct {
	VerifyURL  string
	PrivateKey string
	TestMode   bool
	Timeout    time.Duration
}

// Verifier checks challenge/response pairs.
type Verifier struct {
	http       *resty.Client
	verifyURL  string
	privateKey string
	testMode   bool
}

// New creates a verifier.
func New(cfg Config) *Verifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	verifyURL := cfg.VerifyURL
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Verifier{
		http:       resty.New().SetTimeout(timeout),
		verifyURL:  verifyURL,
		privateKey: cfg.PrivateKey,
		testMode:   cfg.TestMode,
	}
}

// Verify posts the answer and reports whether the first response line says "true".
func (v *Verifier) Verify(ctx context.Context, remoteIP, challenge, response string) (bool, error) {
	if v.testMode {
		return true, nil
	}

	resp, err := v.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"privatekey": v.privateKey,
			"remoteip":   remoteIP,
			"challenge":  challenge,
			"response":   response,
		}).
		Post(v.verifyURL)
	if err != nil {
		return false, fmt.Errorf("verify captcha: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("verify captcha: status %d", resp.StatusCode())
	}

	sc := bufio.NewScanner(bytes.NewReader(resp.Body()))
	if !sc.Scan() {
		return false, nil
	}
	return strings.Contains(sc.Text(), "true"), nil
}
