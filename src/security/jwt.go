package security

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccessToken struct {
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

type RefreshToken struct {
	jwt.RegisteredClaims
}

// Keys holds both ES256 key pairs and the lifetime of the tokens they sign.
type Keys struct {
	accessPriv  *ecdsa.PrivateKey
	accessPub   *ecdsa.PublicKey
	refreshPriv *ecdsa.PrivateKey
	refreshPub  *ecdsa.PublicKey

	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

func NewKeys(access *ecdsa.PrivateKey, refresh *ecdsa.PrivateKey, accessExp time.Duration, refreshExp time.Duration) *Keys {
	return &Keys{
		accessPriv:        access,
		accessPub:         &access.PublicKey,
		refreshPriv:       refresh,
		refreshPub:        &refresh.PublicKey,
		AccessExpiration:  accessExp,
		RefreshExpiration: refreshExp,
	}
}

func loadECPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing EC private key in %s", path)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	ec, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%s does not hold an EC private key", path)
	}
	return ec, nil
}

func loadECPublicKey(path string) (*ecdsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing EC public key in %s", path)
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	ec, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%s does not hold an EC public key", path)
	}
	return ec, nil
}

// LoadKeys reads access_{private,public}.pem and refresh_{private,public}.pem from dir.
func LoadKeys(dir string, accessExp time.Duration, refreshExp time.Duration) (*Keys, error) {
	zap.L().Info("Parsing JWT key pairs...", zap.String("dir", dir))

	keys := &Keys{AccessExpiration: accessExp, RefreshExpiration: refreshExp}
	var err error

	if keys.accessPriv, err = loadECPrivateKey(filepath.Join(dir, "access_private.pem")); err != nil {
		return nil, err
	}
	if keys.accessPub, err = loadECPublicKey(filepath.Join(dir, "access_public.pem")); err != nil {
		return nil, err
	}
	if keys.refreshPriv, err = loadECPrivateKey(filepath.Join(dir, "refresh_private.pem")); err != nil {
		return nil, err
	}
	if keys.refreshPub, err = loadECPublicKey(filepath.Join(dir, "refresh_public.pem")); err != nil {
		return nil, err
	}

	zap.L().Info("JWT key pairs successfully loaded")
	return keys, nil
}

func (k *Keys) NewAccessToken(userId uuid.UUID, isAdmin bool) (string, error) {
	claims := AccessToken{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(k.AccessExpiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(k.accessPriv)
}

func (k *Keys) NewRefreshToken(userId uuid.UUID) (string, error) {
	claims := RefreshToken{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(k.RefreshExpiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(k.refreshPriv)
}

func decodeJWT[T jwt.Claims](tokenStr string, claims T, pubKey *ecdsa.PublicKey) (T, error) {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return pubKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}))
	if err != nil {
		var null T
		return null, err
	}

	if claims, ok := token.Claims.(T); ok && token.Valid {
		return claims, nil
	}

	var null T
	return null, fmt.Errorf("could not parse and decode jwt")
}

func (k *Keys) DecodeAccessToken(tokenStr string) (*AccessToken, error) {
	return decodeJWT(tokenStr, &AccessToken{}, k.accessPub)
}

func (k *Keys) DecodeRefreshToken(tokenStr string) (*RefreshToken, error) {
	return decodeJWT(tokenStr, &RefreshToken{}, k.refreshPub)
}

// UserId parses the subject claim.
func UserId(claims jwt.RegisteredClaims) (uuid.UUID, error) {
	return uuid.Parse(claims.Subject)
}
