package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The authenticated identity derived from a verified bearer token.
type Principal struct {
	ID       int64
	Username string
}

// Token is the credential handed out at login, shaped the way the login
// endpoint returns it.
type Token struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	TokenType string `json:"tokenType"`
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// The Tokenizer issues and verifies the HMAC-signed bearer tokens used to
// authenticate requests. It is the only component that knows the signing
// secret.
type Tokenizer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenizer(secret, issuer string, ttl time.Duration) *Tokenizer {
	return &Tokenizer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue generates a signed token for the given account.
func (t *Tokenizer) Issue(userID int64, username string) (Token, error) {
	now := time.Now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return Token{}, err
	}

	return Token{
		Token:     signed,
		ExpiresIn: int64(t.ttl.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// Parse verifies a bearer token and yields the principal behind it. Any
// failure (bad signature, expired, malformed claims) comes back as an error,
// callers should treat all of them as an invalid credential.
func (t *Tokenizer) Parse(plain string) (Principal, error) {
	var parsed claims

	_, err := jwt.ParseWithClaims(plain, &parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, err
	}

	userID, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return Principal{}, jwt.ErrTokenInvalidSubject
	}

	return Principal{
		ID:       userID,
		Username: parsed.Username,
	}, nil
}

// Declare a private type to be used in contexts to avoid key collisions.
type privateKey string

const principalContextKey privateKey = "principal"

// ContextSetPrincipal returns a child context carrying the authenticated
// principal. The transport layer sets it after verifying the bearer token,
// the services read it back to take authorization decisions.
func ContextSetPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// ContextGetPrincipal retrieves the principal from a context. The boolean
// reports whether the request is authenticated at all.
func ContextGetPrincipal(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(Principal)
	return principal, ok
}

// MustContextGetPrincipal retrieves the principal from a context, panicking
// if not found. To be used only after an auth middleware already enforced
// the authentication.
func MustContextGetPrincipal(ctx context.Context) Principal {
	principal, ok := ctx.Value(principalContextKey).(Principal)
	if !ok {
		panic("cannot retrieve principal from context")
	}
	return principal
}
