// Copyright (c) 2026 Librarium. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides identity token management and the role model.
//
// # Architecture
//
// This package isolates token-handling code from the domain logic. It acts
// as an Infrastructure service injected into the Application layer.
//
// # Trust Model
//
// Librarium does not verify credentials: login is a lookup by email and the
// resulting token is a client-held identity blob whose role claim is taken
// at face value. Signing still prevents casual tampering with the token in
// transit, but this is not an authentication system.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside an identity token.
//
// By embedding the UserID, Name, and Role directly inside the token, the
// authentication middleware can reconstruct the active user context without
// touching the datastore on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	UserID string `json:"uid"`
	Name   string `json:"unm"`
	Role   string `json:"rol"`
}

// TokenService handles generation and verification of identity tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService signing with the shared secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// GenerateToken creates a new signed identity token for a user.
func (service *TokenService) GenerateToken(userID, name, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Name:   name,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a token string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
