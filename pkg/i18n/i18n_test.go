package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizer_T(t *testing.T) {
	en := NewLocalizer(LocaleEnglish)
	fr := NewLocalizer(LocaleFrench)

	params := map[string]string{"value": "4h45", "limit": "4h30"}

	assert.Equal(t, "Continuous driving without sufficient break: 4h45 (max 4h30)",
		en.T("infractions.continuous_driving_exceeded", params))
	assert.Equal(t, "Conduite continue sans pause suffisante : 4h45 (max 4h30)",
		fr.T("infractions.continuous_driving_exceeded", params))
}

func TestLocalizer_UnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "infractions.nope", NewLocalizer(LocaleFrench).T("infractions.nope"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fr", LocaleFrench},
		{"FR-fr", LocaleFrench},
		{"en_GB", LocaleEnglish},
		{"de", DefaultLocale},
		{"", DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	assert.Equal(t, LocaleFrench, ParseAcceptLanguage("fr-FR,fr;q=0.9,en;q=0.8"))
	assert.Equal(t, LocaleFrench, ParseAcceptLanguage("de-DE, fr;q=0.5"))
	assert.Equal(t, LocaleEnglish, ParseAcceptLanguage("en-US"))
	assert.Equal(t, DefaultLocale, ParseAcceptLanguage("*"))
	assert.Equal(t, DefaultLocale, ParseAcceptLanguage(""))
}

func TestContextLocale(t *testing.T) {
	assert.Equal(t, DefaultLocale, GetLocaleFromContext(context.Background()))

	ctx := WithLocale(context.Background(), LocaleFrench)
	assert.Equal(t, LocaleFrench, GetLocaleFromContext(ctx))
	assert.Equal(t, "corps JSON invalide", TFromContext(ctx, "errors.invalid_json"))
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, LocaleFrench, got)

	req = httptest.NewRequest(http.MethodGet, "/?locale=en", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, LocaleEnglish, got)
}

func TestMiddleware_NoPreferenceLeavesContextEmpty(t *testing.T) {
	var found bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = LookupLocale(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, found)

	_, ok := LookupLocale(WithLocale(context.Background(), LocaleFrench))
	assert.True(t, ok)
}
