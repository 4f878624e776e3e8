package stubapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nlouis56/convivio-web/internal/utils"
	"github.com/nlouis56/convivio-web/users"
	"github.com/pkg/errors"
)

// Claims is what the stub API reads back from a verified token.
type Claims struct {
	UserID   string
	Username string
	Roles    []string
}

// HMACSigner signs and verifies access tokens with a shared HS256 secret
type HMACSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewHMACSigner(secret string, ttl time.Duration, now func() time.Time) (*HMACSigner, error) {
	if secret == "" {
		return nil, errors.New("[NewHMACSigner] secret is required")
	}
	if ttl <= 0 {
		return nil, errors.Errorf("[NewHMACSigner] invalid token ttl %s", ttl)
	}
	if now == nil {
		now = time.Now
	}
	return &HMACSigner{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue creates an access token for user
func (h *HMACSigner) Issue(user *users.User) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		"sub":      user.ID,               // Subject
		"username": user.Username,         // Login name
		"roles":    user.Roles,            // Roles at issue time
		"iat":      now.Unix(),            // Issued At
		"exp":      now.Add(h.ttl).Unix(), // Expiry
		"jti":      uuid.New().String(),   // Unique token ID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signed, nil
}

// Verify checks the signature and expiry of rawToken and returns its claims
func (h *HMACSigner) Verify(rawToken string) (*Claims, error) {
	token, err := jwt.Parse(rawToken, h.verificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token has no subject")
	}

	username, _ := mapClaims["username"].(string)
	return &Claims{
		UserID:   sub,
		Username: username,
		Roles:    utils.StringsFromClaim(mapClaims["roles"]),
	}, nil
}

func (h *HMACSigner) verificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
