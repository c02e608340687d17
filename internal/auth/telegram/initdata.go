// Package telegram authenticates Telegram Mini App users from the signed
// initData string the client sends with every request.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/d20tracker/d20-api/internal/errors"
	"github.com/d20tracker/d20-api/internal/pkg/clock"
)

const (
	// AuthScheme prefixes initData in the Authorization header
	AuthScheme = "tma"

	secretKeyLabel = "WebAppData"
)

// User is the Telegram account that signed the request
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Verifier checks initData signatures
type Verifier interface {
	// Verify returns the signing user.
	// Returns errors.Unauthenticated for any malformed, unsigned or expired data
	Verify(initData string) (*User, error)
}

// Config configures the initData verifier
type Config struct {
	BotToken string
	// MaxAge rejects initData whose auth_date is older. Zero disables the check.
	MaxAge time.Duration
	Clock  clock.Clock
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	vb.NotBlank("BotToken", cfg.BotToken)
	if cfg.MaxAge < 0 {
		vb.Field("MaxAge", "must not be negative")
	}
	return vb.Build()
}

type verifier struct {
	secret []byte
	maxAge time.Duration
	clock  clock.Clock
}

// NewVerifier creates an initData verifier for one bot
func NewVerifier(cfg *Config) (Verifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &verifier{
		secret: SecretKey(cfg.BotToken),
		maxAge: cfg.MaxAge,
		clock:  c,
	}, nil
}

// SecretKey derives the signing key: HMAC-SHA256 of the bot token keyed by "WebAppData".
func SecretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(secretKeyLabel))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

// Sign computes the hex initData hash over every value except hash itself.
func Sign(secret []byte, values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + values.Get(k)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *verifier) Verify(initData string) (*User, error) {
	if strings.TrimSpace(initData) == "" {
		return nil, errors.Unauthenticated("missing Telegram initData")
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnauthenticated, "malformed initData")
	}

	received := values.Get("hash")
	if received == "" {
		return nil, errors.Unauthenticated("missing hash in initData")
	}
	expected := Sign(v.secret, values)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		return nil, errors.Unauthenticated("bad Telegram initData signature")
	}

	if v.maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, errors.Unauthenticated("missing auth_date in initData")
		}
		if v.clock.Now().Sub(time.Unix(authDate, 0)) > v.maxAge {
			return nil, errors.Unauthenticated("initData expired")
		}
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, errors.Unauthenticated("missing user in initData")
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnauthenticated, "bad user JSON in initData")
	}
	if user.ID <= 0 {
		return nil, errors.Unauthenticated("bad user id in initData")
	}

	return &user, nil
}

// ParseAuthorization extracts initData from an "Authorization: tma <initData>" header
func ParseAuthorization(header string) (string, error) {
	if header == "" {
		return "", errors.Unauthenticated("missing Authorization header")
	}
	scheme, data, ok := strings.Cut(header, " ")
	if !ok || scheme != AuthScheme {
		return "", errors.Unauthenticated("bad Authorization scheme")
	}
	return strings.TrimSpace(data), nil
}
