package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
)

// TokenTTL is how long an issued session token stays valid
const TokenTTL = 12 * time.Hour

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errAccountDisabled    = errors.New("account is disabled")
)

// Auth authenticates requests with basic credentials for login and signed
// bearer tokens for everything else
type Auth struct {
	DB     databases.UserDatabase
	Secret []byte
	Now    func() time.Time

	authenticator auth.Authenticator
	revoked       store.Cache
}

// NewAuth sets up the go-guardian strategies
func NewAuth(db databases.UserDatabase, secret string) *Auth {
	a := &Auth{DB: db, Secret: []byte(secret), Now: time.Now}

	ctx := context.Background()
	a.authenticator = auth.New()
	a.revoked = store.NewFIFO(ctx, TokenTTL)

	// credentials are checked against the stored hash on every login
	basicStrategy := basic.AuthenticateFunc(a.ValidateUser)
	tokenStrategy := bearer.New(a.VerifyToken, store.NewFIFO(ctx, TokenTTL))

	a.authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
	return a
}

// Middleware authenticates the request and stores the caller on its context.
// The caller's name and role always come from the stored account, never from
// the token.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := a.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Debugw("unauthorized", "url", r.URL.String())
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		p, err := a.Current(r.Context(), info.ID())
		if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, errAccountDisabled) {
			zap.S().Debugw("account no longer valid", "id", info.ID(), "error", err)
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		if err != nil {
			config.ErrorStatus("failed to load account", http.StatusInternalServerError, w, err)
			return
		}
		zap.S().Debugf("User %s Authenticated", p.Name)
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Current loads the account behind an authenticated id. Disabled and
// deleted accounts are rejected.
func (a *Auth) Current(ctx context.Context, id string) (Principal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Principal{}, mongo.ErrNoDocuments
	}
	qctx, cancel := WithQueryTimeout(ctx)
	defer cancel()

	user, err := a.DB.FindOne(qctx, bson.M{"_id": oid})
	if err != nil {
		return Principal{}, err
	}
	if !user.Details.Active {
		return Principal{}, errAccountDisabled
	}
	return Principal{ID: user.ID.Hex(), Name: user.Details.Name, Role: user.Details.Role}, nil
}

// ValidateUser checks an email and password against the users collection
func (a *Auth) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	qctx, cancel := WithQueryTimeout(ctx)
	defer cancel()

	user, err := a.DB.FindOne(qctx, bson.M{"user.email": email})
	if err != nil {
		return nil, errInvalidCredentials
	}
	if !user.Details.Active {
		return nil, fmt.Errorf("user %s is disabled", email)
	}

	usernameHash := sha256.Sum256([]byte(email))
	expectedUsernameHash := sha256.Sum256([]byte(strings.ToLower(user.Details.Email)))
	if subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) != 1 {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Details.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return auth.NewDefaultUser(user.Details.Name, user.ID.Hex(), []string{user.Details.Role}, nil), nil
}

// IssueToken signs a session token for the caller
func (a *Auth) IssueToken(p Principal) (string, time.Time, error) {
	now := a.Now()
	exp := now.Add(TokenTTL)
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"name": p.Name,
		"role": p.Role,
		"typ":  "access",
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// VerifyToken validates a bearer token that is not in the session cache,
// for example after a restart
func (a *Auth) VerifyToken(_ context.Context, r *http.Request, token string) (auth.Info, error) {
	if _, revoked, _ := a.revoked.Load(token, r); revoked {
		return nil, errors.New("token revoked")
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.Now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, errors.New("token is missing subject or role")
	}
	return auth.NewDefaultUser(name, sub, []string{role}, nil), nil
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID       string   `json:"_id"`
		Name     string   `json:"name"`
		Role     string   `json:"role"`
		Sections []string `json:"sections"`
	} `json:"user"`
}

// CreateToken exchanges the basic credentials of an authenticated request
// for a session token
func (a *Auth) CreateToken(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
		return
	}
	token, exp, err := a.IssueToken(p)
	if err != nil {
		config.ErrorStatus("failed to create token", http.StatusInternalServerError, w, err)
		return
	}
	info := auth.NewDefaultUser(p.Name, p.ID, []string{p.Role}, nil)
	if err := auth.Append(a.authenticator.Strategy(bearer.CachedStrategyKey), token, info, r); err != nil {
		config.ErrorStatus("failed to store token", http.StatusInternalServerError, w, err)
		return
	}

	var resp tokenResponse
	resp.Token = token
	resp.ExpiresAt = exp
	resp.User.ID = p.ID
	resp.User.Name = p.Name
	resp.User.Role = p.Role
	resp.User.Sections = VisibleSections(p.Role)
	config.WriteData(w, http.StatusOK, resp)
}

// RevokeToken ends the session of the bearer token on the request
func (a *Auth) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" || strings.HasPrefix(token, "Basic ") {
		config.ErrorStatus("a bearer token is required", http.StatusBadRequest, w, nil)
		return
	}
	_ = auth.Revoke(a.authenticator.Strategy(bearer.CachedStrategyKey), token, r)
	if err := a.revoked.Store(token, true, r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusInternalServerError, w, err)
		return
	}
	config.WriteData(w, http.StatusOK, map[string]bool{"revoked": true})
}
