package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos pela aplicação.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims inclui os claims padrão JWT mais os campos próprios da aplicação.
// Role e EstabelecimentoID viajam no token para que o middleware RBAC
// decida sem consultar a DB; SessionID amarra o token à sessão persistida.
type Claims struct {
	jwt.RegisteredClaims
	UserID            string `json:"user_id"`
	SessionID         string `json:"session_id"`
	EstabelecimentoID string `json:"estabelecimento_id,omitempty"`
	Role              string `json:"role"` // "ADMIN" | "OWNER" | "PROFESSIONAL" | "RECEPTIONIST"
	TokenType         string `json:"token_type"`
}

// Generate gera um token JWT assinado (HS256) do tipo indicado.
func Generate(secret, issuer, tokenType string, expMinutes int, userID, sessionID, estabID, role string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vazio")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:            userID,
		SessionID:         sessionID,
		EstabelecimentoID: estabID,
		Role:              role,
		TokenType:         tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GeneratePair gera o par access + refresh para uma mesma sessão.
func GeneratePair(secret, issuer string, accessMinutes, refreshMinutes int, userID, sessionID, estabID, role string) (access, refresh string, err error) {
	access, err = Generate(secret, issuer, TypeAccess, accessMinutes, userID, sessionID, estabID, role)
	if err != nil {
		return "", "", err
	}
	refresh, err = Generate(secret, issuer, TypeRefresh, refreshMinutes, userID, sessionID, estabID, role)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Parse valida o token e devolve os claims.
// Retorna erro se o token for inválido, expirado ou com assinatura incorreta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vazio")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
