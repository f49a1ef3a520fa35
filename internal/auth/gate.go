package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Mode string

const (
	ModeStrict     Mode = "strict"
	ModePermissive Mode = "permissive"

	// AnonymousSubject is the identity given to callers admitted in permissive mode.
	AnonymousSubject = "anonymous"

	bearerPrefix = "Bearer "
)

var (
	ErrMissingCredential   = errors.New("auth: missing authorization header")
	ErrMalformedCredential = errors.New("auth: malformed authorization header")
	ErrInvalidCredential   = errors.New("auth: invalid token")
	ErrExpiredCredential   = errors.New("auth: token has expired")
	ErrMissingIdentity     = errors.New("auth: token carries no identity")
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModePermissive:
		return ModePermissive, nil
	default:
		return "", fmt.Errorf("auth: unknown mode %q", raw)
	}
}

// Gate decides whether a request's Authorization header admits the caller.
type Gate struct {
	mode   Mode
	secret []byte
	issuer *Issuer
	parser *jwt.Parser
}

// NewGate builds a gate. issuer may be nil; when set, its credential is
// recognised without re-verifying the signature.
func NewGate(mode Mode, secret string, issuer *Issuer) *Gate {
	return &Gate{
		mode:   mode,
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (g *Gate) Mode() Mode {
	return g.mode
}

// Authenticate checks the raw Authorization header value.
func (g *Gate) Authenticate(header string) (*Identity, error) {
	token, err := bearerToken(header)
	if err != nil {
		return nil, err
	}

	if g.isSelfIssued(token) {
		return &Identity{Subject: ServiceIdentity, SelfIssued: true}, nil
	}

	if g.mode == ModePermissive {
		if strings.ContainsAny(token, " \t\r\n") {
			return nil, ErrMalformedCredential
		}
		return &Identity{Subject: AnonymousSubject}, nil
	}

	return g.verify(token)
}

func (g *Gate) verify(token string) (*Identity, error) {
	if len(g.secret) == 0 {
		return nil, ErrInvalidCredential
	}

	claims := jwt.MapClaims{}
	_, err := g.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrMissingIdentity
	}

	return &Identity{Subject: subject, Claims: claims}, nil
}

func (g *Gate) isSelfIssued(token string) bool {
	if g.issuer == nil {
		return false
	}
	issued, ok := g.issuer.Issued()
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(issued)) == 1
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingCredential
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformedCredential
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrMalformedCredential
	}
	return token, nil
}
