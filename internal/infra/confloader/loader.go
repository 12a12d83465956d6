package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "RESPKV_"

// Loader layers configuration sources over the values already present in
// a target struct. Later layers win:
//
//	target defaults < YAML file < RESPKV_* environment < overrides
type Loader struct {
	path      string
	overrides map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile adds a YAML file layer. An empty path skips it.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.path = path
	}
}

// WithOverrides adds the top layer, typically flags the user set. Keys are
// dotted ("server.redis.addr").
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		l.overrides = values
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves every layer into target, a pointer to a struct with koanf
// tags. Fields no layer mentions keep their current value.
func (l *Loader) Load(target any) error {
	k := koanf.New(".")

	if l.path != "" {
		if err := k.Load(file.Provider(l.path), yaml.Parser()); err != nil {
			return fmt.Errorf("load config file %s: %w", l.path, err)
		}
	}

	envKeys := make(map[string]string)
	for _, key := range StructKeys(target) {
		envKeys[envName(key)] = key
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyFunc(envKeys)), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if len(l.overrides) > 0 {
		if err := k.Load(mapProvider(l.overrides), nil); err != nil {
			return fmt.Errorf("load overrides: %w", err)
		}
	}

	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// envKeyFunc maps RESPKV_SERVER_REDIS_READ_TIMEOUT to a known key such as
// server.redis.read_timeout. Unknown names fall back to turning every
// underscore into a dot.
func envKeyFunc(known map[string]string) func(string) string {
	return func(name string) string {
		name = strings.TrimPrefix(name, EnvPrefix)
		if key, ok := known[strings.ToUpper(name)]; ok {
			return key
		}
		return strings.ReplaceAll(strings.ToLower(name), "_", ".")
	}
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
