package query

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/param"
)

// keyBytes is the amount of randomness in an api key (hex encoded: 52 chars).
const keyBytes = 26

// ClientInfo shows the authenticated client and its usage.
type ClientInfo struct {
	env    *Env
	params *param.Set
}

// NewClientInfo creates the client display query.
func NewClientInfo(env *Env) *ClientInfo {
	return &ClientInfo{env: env, params: param.NewSet()}
}

// Doc describes the query.
func (c *ClientInfo) Doc() string { return "Display client information and API usage stats." }

// Params returns the query parameters.
func (c *ClientInfo) Params() *param.Set { return c.params }

// Fetch returns the caller's client record.
func (c *ClientInfo) Fetch(_ context.Context) (Body, error) {
	return displayClient(c.env.Client, c.env.Tiers), nil
}

// Registration creates a new free-tier client.
type Registration struct {
	env      *Env
	remoteIP string

	name      *param.String
	email     *param.String
	challenge *param.String
	response  *param.String
	params    *param.Set
}

// NewRegistration creates a registration for a request from remoteIP.
func NewRegistration(env *Env, remoteIP string) *Registration {
	r := &Registration{
		env:       env,
		remoteIP:  remoteIP,
		name:      param.NewString("name", "", ""),
		email:     param.NewString("email", "", ""),
		challenge: param.NewString("challenge", "", ""),
		response:  param.NewString("response", "", ""),
	}
	r.params = param.NewSet(r.name, r.email, r.challenge, r.response)
	return r
}

// Doc describes the query.
func (r *Registration) Doc() string { return "Register a new API client." }

// Params returns the form parameters.
func (r *Registration) Params() *param.Set { return r.params }

// Fetch validates the form and CAPTCHA, stores the client and returns it.
func (r *Registration) Fetch(ctx context.Context) (Body, error) {
	if r.name.Value() == "" || r.email.Value() == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrBadRequest)
	}
	ok, err := r.env.Captcha.Verify(ctx, r.remoteIP, r.challenge.Value(), r.response.Value())
	if err != nil {
		return nil, fmt.Errorf("%w: captcha: %v", domain.ErrBadRequest, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: captcha rejected", domain.ErrBadRequest)
	}

	key, err := NewAPIKey()
	if err != nil {
		return nil, err
	}
	client := domain.Client{
		APIKey:   key,
		Tier:     domain.TierFree,
		Name:     r.name.Value(),
		Email:    r.email.Value(),
		Requests: 0,
		Reset:    r.env.now().Unix(),
	}
	if err := r.env.Clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	r.env.Client = client
	return displayClient(client, r.env.Tiers), nil
}

// NewAPIKey returns a fresh random api key.
func NewAPIKey() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func displayClient(c domain.Client, tiers domain.Tiers) Body {
	return Body{
		"api_key":  c.APIKey,
		"tier":     string(c.Tier),
		"name":     c.Name,
		"email":    c.Email,
		"requests": c.Requests,
		"reset":    c.Reset,
		"quota":    tiers.Quota(c.Tier),
	}
}
