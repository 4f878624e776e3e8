// Package language keeps the user's display language and translates UI keys.
package language

import (
	"embed"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nlouis56/convivio-web/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// StorageKey is where the selected language code is persisted.
	StorageKey      = "selectedLanguage"
	DefaultLanguage = "en-US"
	unknownFlag     = "🌐"
)

type Language struct {
	Code string
	Name string
	Flag string
}

// Available lists the supported languages in display order.
var Available = []Language{
	{Code: "en-US", Name: "English", Flag: "🇺🇸"},
	{Code: "fr-FR", Name: "Français", Flag: "🇫🇷"},
}

//go:embed translations/*.yaml
var translationFiles embed.FS

type Service struct {
	storage      credentials.Storage
	translations map[string]map[string]string
	logger       zerolog.Logger

	lock      sync.RWMutex
	current   string
	listeners map[int]func(code string)
	nextID    int
}

type Option func(*Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService restores the saved language from storage. A missing, unknown or
// unreadable saved value falls back to DefaultLanguage.
func NewService(storage credentials.Storage, options ...Option) (*Service, error) {
	if storage == nil {
		storage = credentials.Inert{}
	}

	translations, err := loadTranslations()
	if err != nil {
		return nil, errors.Wrap(err, "[language NewService] failed to load translations")
	}

	s := &Service{
		storage:      storage,
		translations: translations,
		logger:       log.Logger,
		current:      DefaultLanguage,
		listeners:    make(map[int]func(string)),
	}
	for _, opt := range options {
		opt(s)
	}

	saved, ok, err := storage.Get(StorageKey)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Failed to read saved language, using default")
	case ok && IsSupported(saved):
		s.current = saved
	}
	return s, nil
}

func loadTranslations() (map[string]map[string]string, error) {
	translations := make(map[string]map[string]string, len(Available))
	for _, lang := range Available {
		data, err := translationFiles.ReadFile("translations/" + lang.Code + ".yaml")
		if err != nil {
			return nil, errors.Wrapf(err, "missing translations for %s", lang.Code)
		}
		dict := make(map[string]string)
		if err := yaml.Unmarshal(data, &dict); err != nil {
			return nil, errors.Wrapf(err, "invalid translations for %s", lang.Code)
		}
		translations[lang.Code] = dict
	}
	return translations, nil
}

func IsSupported(code string) bool {
	return slices.ContainsFunc(Available, func(l Language) bool { return l.Code == code })
}

func (s *Service) Current() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current
}

// Set switches to code and persists it. Unknown codes are ignored and
// reported as false.
func (s *Service) Set(code string) (bool, error) {
	if !IsSupported(code) {
		return false, nil
	}
	if err := s.storage.SetAll(map[string]string{StorageKey: code}); err != nil {
		return false, errors.Wrap(err, "failed to save language")
	}

	s.lock.Lock()
	s.current = code
	listeners := make([]func(string), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.lock.Unlock()

	for _, l := range listeners {
		l(code)
	}
	return true, nil
}

// OnChange registers listener for language switches.
func (s *Service) OnChange(listener func(code string)) (cancel func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lock.Lock()
			delete(s.listeners, id)
			s.lock.Unlock()
		})
	}
}

// Name returns the display name of code, or code itself when unknown.
func Name(code string) string {
	if lang, ok := find(code); ok {
		return lang.Name
	}
	return code
}

// Flag returns the flag emoji of code, or a globe when unknown.
func Flag(code string) string {
	if lang, ok := find(code); ok {
		return lang.Flag
	}
	return unknownFlag
}

func find(code string) (Language, bool) {
	i := slices.IndexFunc(Available, func(l Language) bool { return l.Code == code })
	if i < 0 {
		return Language{}, false
	}
	return Available[i], true
}

// Translate looks key up in the current language, falling back to the key
// itself. Placeholders {0}, {1}... are replaced by args.
func (s *Service) Translate(key string, args ...string) string {
	text, ok := s.translations[s.Current()][key]
	if !ok || text == "" {
		return key
	}
	for i, arg := range args {
		text = strings.ReplaceAll(text, "{"+strconv.Itoa(i)+"}", arg)
	}
	return text
}
