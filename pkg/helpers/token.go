package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
)

// Redis key helpers

func KeySession(identityID int64) string {
	return "user:session:" + strconv.FormatInt(identityID, 10)
}

func KeyResetToken(token string) string {
	return "pwd:reset:token:" + token
}

func KeyVerifyToken(token string) string {
	return "email:verify:token:" + token
}

// GenToken returns n random bytes encoded as URL-safe base64 without padding.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
