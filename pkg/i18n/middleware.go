package i18n

import (
	"net/http"
)

// Middleware picks the locale from ?locale= or the Accept-Language header
// and adds it to the request context. Requests carrying neither are left
// untouched so callers can apply their own default.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("locale"); q != "" {
			r = r.WithContext(WithLocale(r.Context(), Normalize(q)))
		} else if header := r.Header.Get("Accept-Language"); header != "" {
			r = r.WithContext(WithLocale(r.Context(), ParseAcceptLanguage(header)))
		}

		next.ServeHTTP(w, r)
	})
}
