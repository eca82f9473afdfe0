package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 会话令牌只携带学生身份，没有账号体系
type SessionClaims struct {
	StudentName  string `json:"student_name"`
	Unrestricted bool   `json:"unrestricted"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(studentName string, unrestricted bool, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &SessionClaims{
		StudentName:  studentName,
		Unrestricted: unrestricted,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidSessionToken
}

func GetSessionFromContext(c *gin.Context) *SessionClaims {
	session, exists := c.Get("session")
	if !exists {
		return nil
	}
	claims, ok := session.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
