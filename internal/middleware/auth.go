package middleware

import (
	"net/http"
	"strings"

	"github.com/AgusMolinaCode/usuarios-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ctxUserID    = "userId"
	ctxUserEmail = "userEmail"
)

// TokenVerifier é a parte do serviço de credenciais usada pelo gate.
type TokenVerifier interface {
	VerifyToken(token string) (*services.Claims, error)
}

// bearerToken extrai o token de "Authorization: Bearer <token>".
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			return
		}

		claims, err := verifier.VerifyToken(tokenString)
		if err != nil {
			log.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejeitado")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token inválido ou expirado"})
			return
		}

		c.Set(ctxUserID, claims.ID)
		c.Set(ctxUserEmail, claims.Email)
		c.Next()
	}
}
