package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Authenticator resolves the caller of a request. It trusts bearer tokens
// signed with the shared secret or a key from the provider's JWKS, and
// falls back to the provider's session cookie.
type Authenticator struct {
	secret   []byte
	jwks     *keyfunc.JWKS
	sessions repository.SessionRepository
	cookie   string
	log      *zap.Logger
}

func New(ctx context.Context, cfg config.AuthConfig, sessions repository.SessionRepository, log *zap.Logger) (*Authenticator, error) {
	a := &Authenticator{
		secret:   []byte(cfg.JWTSecret),
		sessions: sessions,
		cookie:   cfg.SessionCookie,
		log:      log.With(zap.String("component", "auth")),
	}

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			Ctx:               ctx,
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				a.log.Warn("jwks refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load jwks: %w", err)
		}
		a.jwks = jwks
	}
	return a, nil
}

func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

// Authenticate returns nil without error when the request carries no
// usable credentials. Errors are reserved for session store failures.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*domain.Identity, error) {
	if token, ok := bearerToken(r); ok {
		identity, err := a.parseJWT(token)
		if err != nil {
			a.log.Debug("rejected bearer token", zap.Error(err))
			return nil, nil
		}
		return identity, nil
	}

	token := a.sessionToken(r)
	if token == "" || a.sessions == nil {
		return nil, nil
	}
	return a.sessions.FindIdentity(ctx, token)
}

func (a *Authenticator) parseJWT(raw string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, a.keyFor)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &domain.Identity{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

func (a *Authenticator) keyFor(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(a.secret) == 0 {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return a.secret, nil
	default:
		if a.jwks == nil {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return a.jwks.Keyfunc(token)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// sessionToken reads the signed session cookie, "token.signature", possibly
// URL-encoded and possibly under the __Secure- prefix.
func (a *Authenticator) sessionToken(r *http.Request) string {
	c, err := r.Cookie(a.cookie)
	if err != nil {
		c, err = r.Cookie("__Secure-" + a.cookie)
		if err != nil {
			return ""
		}
	}
	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		value = c.Value
	}
	token, _, _ := strings.Cut(value, ".")
	return token
}
