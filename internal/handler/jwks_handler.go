package handler

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"

	"github.com/gofiber/fiber/v2"
)

type JWKSHandler struct {
	publicKey *rsa.PublicKey
	keyID     string
}

type JWKS struct {
	Keys []JWK `json:"keys"`
}

type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func NewJWKSHandler(publicKey *rsa.PublicKey, keyID string) *JWKSHandler {
	return &JWKSHandler{
		publicKey: publicKey,
		keyID:     keyID,
	}
}

// GetJWKS publishes the RS256 verification key
// GET /.well-known/jwks.json
func (h *JWKSHandler) GetJWKS(c *fiber.Ctx) error {
	n := base64.RawURLEncoding.EncodeToString(h.publicKey.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(h.publicKey.E)).Bytes())

	return c.JSON(JWKS{
		Keys: []JWK{
			{
				Kty: "RSA",
				Use: "sig",
				Kid: h.keyID,
				Alg: "RS256",
				N:   n,
				E:   e,
			},
		},
	})
}
