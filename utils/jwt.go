package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const (
	accessTTL       = 15 * time.Minute
	refreshTTL      = 180 * 24 * time.Hour
	refreshRotateAt = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type CustomClaims struct {
	UserID    string    `json:"user_id"`
	TokenType TokenType `json:"type"`
	Device    string    `json:"device"`
	jwt.RegisteredClaims
}

func tokenKey(tokenType TokenType, token string) string {
	if tokenType == AccessToken {
		return "access_token:" + token
	}
	return "refresh_token:" + token
}

func generateToken(userID, device string, tokenType TokenType, ttl time.Duration) (string, error) {
	cfg := config.GetConfig()

	now := time.Now()
	claims := CustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		Device:    device,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("can't sign the token: %w", err)
	}
	if err := revokeTokensByIndex(userID, device, tokenType); err != nil {
		return "", fmt.Errorf("can't remove old tokens: %w", err)
	}

	indexKey := deviceIndexKey(userID, device, tokenType)
	if err := RedisSet(tokenKey(tokenType, signed), userID+device, ttl, indexKey); err != nil {
		return "", fmt.Errorf("can't save the token: %w", err)
	}
	return signed, nil
}

func GenerateAccessToken(userID, device string) (string, error) {
	return generateToken(userID, device, AccessToken, accessTTL)
}

func GenerateRefreshToken(userID, device string) (string, error) {
	return generateToken(userID, device, RefreshToken, refreshTTL)
}

// VerifyToken checks the signature and that the token is still live in
// Redis. It returns the remaining Redis TTL.
func VerifyToken(tokenStr string, tokenType TokenType) (*CustomClaims, time.Duration, error) {
	cfg := config.GetConfig()
	key := tokenKey(tokenType, tokenStr)

	redisTTL, err := RedisTTL(key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check token existence: %w", err)
	}
	if redisTTL < 1 {
		return nil, 0, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, 0, err
	}

	claims, ok := parsed.Claims.(*CustomClaims)
	if !ok || !parsed.Valid || claims.TokenType != tokenType {
		return nil, 0, ErrInvalidToken
	}
	stored, err := RedisGet(key)
	if err != nil || stored != claims.UserID+claims.Device {
		return nil, 0, ErrInvalidToken
	}
	return claims, redisTTL, nil
}

// RefreshAccessToken issues a new access token. The refresh token is rotated
// once less than 30 days remain on it.
func RefreshAccessToken(refreshToken string) (string, string, error) {
	claims, ttl, err := VerifyToken(refreshToken, RefreshToken)
	if err != nil {
		return "", "", err
	}

	accessToken, err := GenerateAccessToken(claims.UserID, claims.Device)
	if err != nil {
		return "", "", err
	}
	newRefreshToken := refreshToken
	if ttl < refreshRotateAt {
		if err := RedisDel(tokenKey(RefreshToken, refreshToken)); err != nil {
			return "", "", err
		}
		newRefreshToken, err = GenerateRefreshToken(claims.UserID, claims.Device)
		if err != nil {
			return "", "", err
		}
		Info("🆕 Refresh token", "user_id", claims.UserID, "device", claims.Device)
	}
	return accessToken, newRefreshToken, nil
}

// CheckUserToken returns the user behind an access token. expired is true
// when the token is unknown or about to lapse and the client should refresh.
func CheckUserToken(accessToken string) (userID *uuid.UUID, expired bool) {
	claims, ttl, err := VerifyToken(accessToken, AccessToken)
	if err != nil {
		return nil, true
	}
	parsedUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, false
	}
	return &parsedUUID, ttl < 60*time.Second
}

func GenerateDeviceID(ua, accept, lang, encoding, ip string) string {
	rawID := fmt.Sprintf("%s|%s|%s|%s|%s", ua, accept, lang, encoding, ip)
	hash := sha256.Sum256([]byte(rawID))
	return hex.EncodeToString(hash[:])
}

func deviceIndexKey(userID, deviceID string, tokenType TokenType) string {
	return "device_tokens:" + string(tokenType) + ":" + userID + ":" + deviceID
}

func revokeTokensByIndex(userID, deviceID string, tokenType TokenType) error {
	indexKey := deviceIndexKey(userID, deviceID, tokenType)
	tokens, err := Redis.SMembers(Ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	pipe := Redis.TxPipeline()
	for _, t := range tokens {
		pipe.Del(Ctx, tokenKey(tokenType, t))
	}
	pipe.Del(Ctx, indexKey)
	_, err = pipe.Exec(Ctx)
	return err
}
