package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecureHeaders sets the API's security headers. Production additionally redirects plain
// HTTP (behind a proxy reporting X-Forwarded-Proto) and sends HSTS.
func SecureHeaders(prod bool) func(http.Handler) http.Handler {
	opts := secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           prod,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !prod,
	}
	if prod {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	return secure.New(opts).Handler
}
