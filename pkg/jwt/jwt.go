package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles del almacén reconocidos por el RBAC de /api.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleConsulta  = "consulta"
)

// Claims de un operador del almacén. Subject es el identificador del operador.
type Claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	Warehouse string `json:"warehouse,omitempty"`
}

// Operator datos extraídos de un token válido.
type Operator struct {
	ID        string
	Role      string
	Warehouse string
}

// Generate firma un token HS256 para un operador con vigencia ttl.
func Generate(secret, issuer string, op Operator, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	if op.ID == "" {
		return "", errors.New("jwt: operador sin identificador")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   op.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:      op.Role,
		Warehouse: op.Warehouse,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y, si issuer no está vacío, el emisor.
func Parse(secret, issuer, tokenString string) (Operator, error) {
	if secret == "" {
		return Operator{}, errors.New("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Operator{}, fmt.Errorf("jwt: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Operator{}, errors.New("jwt: claims inválidos")
	}
	return Operator{ID: claims.Subject, Role: claims.Role, Warehouse: claims.Warehouse}, nil
}
