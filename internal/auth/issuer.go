package auth

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ServiceIdentity is the subject of the self-issued credential.
	ServiceIdentity = "blacklist_service"
	serviceName     = "blacklist_api"

	createdAtLayout = "2006-01-02T15:04:05.000000"
)

var ErrEmptySecret = errors.New("auth: signing secret is empty")

// Issuer hands out a single non-expiring credential for trusted automated
// clients. The credential is generated on first demand and the same string
// is returned for the lifetime of the Issuer.
type Issuer struct {
	secret []byte
	now    func() time.Time

	mu        sync.Mutex
	token     atomic.Pointer[string]
	generated atomic.Int64
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Token returns the process credential, generating it on the first call.
// A failed generation is not remembered; the next call retries.
func (i *Issuer) Token() (string, error) {
	if token := i.token.Load(); token != nil {
		return *token, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if token := i.token.Load(); token != nil {
		return *token, nil
	}

	token, err := i.sign()
	if err != nil {
		return "", err
	}
	i.token.Store(&token)
	i.generated.Add(1)
	log.Info("Issued service token", "sub", ServiceIdentity)
	return token, nil
}

// Issued reports the credential if one has been generated.
func (i *Issuer) Issued() (string, bool) {
	token := i.token.Load()
	if token == nil {
		return "", false
	}
	return *token, true
}

func (i *Issuer) sign() (string, error) {
	if len(i.secret) == 0 {
		return "", ErrEmptySecret
	}

	now := i.now().UTC()
	claims := jwt.MapClaims{
		"sub":        ServiceIdentity,
		"user_id":    ServiceIdentity,
		"service":    serviceName,
		"created_at": now.Format(createdAtLayout),
		"iat":        now.Unix(),
		"jti":        uuid.NewString(),
		"type":       "access",
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign service token: %w", err)
	}
	return signed, nil
}
