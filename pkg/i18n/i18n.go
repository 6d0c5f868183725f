// Package i18n loads the message catalogs and resolves message ids for a
// locale, falling back to the default locale and then to the id itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localesFS embed.FS

// Supported is the locale allow-list, in display order.
var Supported = []string{"en", "hi"}

type Translator struct {
	bundle        *goi18n.Bundle
	defaultLocale string
	localizers    map[string]*goi18n.Localizer
}

// New loads every supported catalog. defaultLocale must be in Supported.
func New(defaultLocale string) (*Translator, error) {
	if !IsSupported(defaultLocale) {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}
	bundle := goi18n.NewBundle(language.MustParse(defaultLocale))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, loc := range Supported {
		if _, err := bundle.LoadMessageFileFS(localesFS, path.Join("locales", "active."+loc+".json")); err != nil {
			return nil, fmt.Errorf("load %s catalog: %w", loc, err)
		}
	}
	t := &Translator{bundle: bundle, defaultLocale: defaultLocale, localizers: map[string]*goi18n.Localizer{}}
	for _, loc := range Supported {
		t.localizers[loc] = goi18n.NewLocalizer(bundle, loc, defaultLocale)
	}
	return t, nil
}

func IsSupported(locale string) bool {
	for _, l := range Supported {
		if l == locale {
			return true
		}
	}
	return false
}

func (t *Translator) DefaultLocale() string { return t.defaultLocale }

var matcher = language.NewMatcher([]language.Tag{language.English, language.Hindi})

// Match picks the supported locale closest to an Accept-Language header,
// or the default locale when nothing is close.
func (t *Translator) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLocale
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return t.defaultLocale
	}
	return Supported[idx]
}

// T resolves id for locale. data feeds {{.Field}} placeholders.
func (t *Translator) T(locale, id string, data map[string]any) string {
	loc, ok := t.localizers[locale]
	if !ok {
		loc = t.localizers[t.defaultLocale]
	}
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
