package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julianstephens/timetable/internal/api"
	"github.com/julianstephens/timetable/internal/models"
)

// Result is what a successful authentication yields.
type Result struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Provider authenticates against an identity backend.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Result, error)
	SignUp(ctx context.Context, email, password string) (Result, error)
	// SignInWithProvider exchanges an identity token issued by a trusted
	// third party for a session.
	SignInWithProvider(ctx context.Context, idToken string) (Result, error)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type providerToken struct {
	IDToken string `json:"idToken"`
}

// HTTPProvider talks to the companion backend's /auth endpoints.
type HTTPProvider struct {
	client *api.Client
}

func NewHTTPProvider(baseURL string, opts ...api.Option) *HTTPProvider {
	return &HTTPProvider{client: api.New(baseURL, nil, opts...)}
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (Result, error) {
	return p.post(ctx, "sign in", "/auth/signin", credentials{Email: email, Password: password}, FlowEmail)
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) (Result, error) {
	return p.post(ctx, "sign up", "/auth/signup", credentials{Email: email, Password: password}, FlowEmail)
}

func (p *HTTPProvider) SignInWithProvider(ctx context.Context, idToken string) (Result, error) {
	return p.post(ctx, "provider sign in", "/auth/provider", providerToken{IDToken: idToken}, FlowProvider)
}

func (p *HTTPProvider) post(ctx context.Context, op, path string, body any, flow Flow) (Result, error) {
	var res Result
	if err := p.client.Do(ctx, op, http.MethodPost, path, body, &res); err != nil {
		return Result{}, classify(err, flow)
	}
	if res.Token == "" || res.User.UID == "" {
		return Result{}, &Error{Flow: flow, Err: errors.New("incomplete authentication response")}
	}
	return res, nil
}

func classify(err error, flow Flow) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && strings.HasPrefix(apiErr.Code, "auth/") {
		return &Error{Code: Code(apiErr.Code), Flow: flow, Err: err}
	}
	return &Error{Flow: flow, Err: err}
}
