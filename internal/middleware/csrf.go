package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"
)

const (
	csrfSecretCookie = "_csrf"
	csrfTokenCookie  = "XSRF-TOKEN"
	csrfHeader       = "X-XSRF-TOKEN"
)

type CSRFConfig struct {
	// Key assina o cookie _csrf. Vazia gera uma chave aleatória por processo.
	Key []byte
	// Secure marca os cookies como Secure (só HTTPS).
	Secure bool
	// TrustedOrigins são hosts (sem esquema) aceitos no cabeçalho Origin.
	TrustedOrigins []string
}

func setCSRFTokenCookie(w http.ResponseWriter, r *http.Request, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     csrfTokenCookie,
		Value:    csrf.Token(r),
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CSRF protege os métodos não seguros com gorilla/csrf. O segredo fica no
// cookie _csrf e o token mascarado vai no cookie XSRF-TOKEN a cada resposta,
// inclusive nas recusadas.
func CSRF(cfg CSRFConfig) gin.HandlerFunc {
	key := cfg.Key
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		log.Warn().Msg("CSRF_KEY não configurada; usando chave aleatória")
	}

	failure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Debug().Err(csrf.FailureReason(r)).Msg("requisição recusada pelo CSRF")
		setCSRFTokenCookie(w, r, cfg.Secure)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Token CSRF inválido"}`))
	})

	protect := csrf.Protect(key,
		csrf.CookieName(csrfSecretCookie),
		csrf.RequestHeader(csrfHeader),
		csrf.FieldName(csrfSecretCookie),
		csrf.Path("/"),
		csrf.Secure(cfg.Secure),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
		csrf.ErrorHandler(failure),
	)

	return func(c *gin.Context) {
		req := c.Request
		if !cfg.Secure {
			// sem TLS não há Referer https para conferir
			req = csrf.PlaintextHTTPRequest(req)
		}

		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			setCSRFTokenCookie(w, r, cfg.Secure)
			c.Next()
		})).ServeHTTP(c.Writer, req)

		if !passed {
			c.Abort()
		}
	}
}
