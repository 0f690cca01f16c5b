package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL bounds how long a minted proxy link stays valid.
const DefaultTokenTTL = 30 * 24 * time.Hour

// ProxyRelay keeps only the Telegram file id and serves the bytes through
// this service's /files endpoint, authorized by a signed token. Nothing is
// copied out of Telegram's storage.
type ProxyRelay struct {
	Files    FileSource
	BaseURL  string
	Secret   []byte
	TokenTTL time.Duration
}

func NewProxyRelay(files FileSource, baseURL, secret string) *ProxyRelay {
	return &ProxyRelay{
		Files:    files,
		BaseURL:  baseURL,
		Secret:   []byte(secret),
		TokenTTL: DefaultTokenTTL,
	}
}

func (p *ProxyRelay) Acquire(ctx context.Context, fileID string) (string, error) {
	// Resolve once so a bogus file id fails at report time, not at view time.
	if _, err := p.Files.GetFile(ctx, fileID); err != nil {
		return "", err
	}
	return fileID, nil
}

func (p *ProxyRelay) ResolveURL(ref string) (string, error) {
	token, err := p.SignToken(ref)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/files/%s", p.BaseURL, token), nil
}

// SignToken mints the file token embedded in proxy URLs.
func (p *ProxyRelay) SignToken(fileID string) (string, error) {
	claims := jwt.MapClaims{
		"file_id": fileID,
		"exp":     time.Now().Add(p.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.Secret)
}

// VerifyToken checks a proxy file token and returns the file id it grants
// access to.
func (p *ProxyRelay) VerifyToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid file token")
	}
	fileID, ok := claims["file_id"].(string)
	if !ok || fileID == "" {
		return "", fmt.Errorf("invalid file token claims")
	}
	return fileID, nil
}
