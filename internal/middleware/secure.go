package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

const contentSecurityPolicy = "default-src 'self';base-uri 'self';font-src 'self' https: data:;form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';upgrade-insecure-requests"

// cabeçalhos que o gin-contrib/secure não emite
var extraSecureHeaders = map[string]string{
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
	"X-DNS-Prefetch-Control":            "off",
	"X-Permitted-Cross-Domain-Policies": "none",
	"X-XSS-Protection":                  "0",
}

// SecureHeaders aplica os cabeçalhos de segurança padrão em toda resposta.
func SecureHeaders() gin.HandlerFunc {
	policy := secure.New(secure.Config{
		SSLRedirect:             false,
		STSSeconds:              31536000,
		STSIncludeSubdomains:    true,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		ContentSecurityPolicy:   contentSecurityPolicy,
		IENoOpen:                true,
		ReferrerPolicy:          "no-referrer",
	})

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range extraSecureHeaders {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")
		policy(c)
	}
}
