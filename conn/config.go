package conn

import (
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/pool"
	"github.com/praxdb/prax/schema"
)

// Config is the decoded form of a prax.toml project config: named
// datasource overrides, pool tuning, and generator manifest entries a
// CLI or build script reads alongside the schema file itself.
type Config struct {
	Datasources map[string]DatasourceConfig `toml:"datasources"`
	Pool        PoolConfig                  `toml:"pool"`
	Generator   map[string]GeneratorConfig  `toml:"generator"`
}

// DatasourceConfig overrides one `datasource name { ... }` block's
// connection string. URL is used verbatim after ${ENV_VAR} interpolation;
// URLEnv names an environment variable read wholesale instead. Exactly
// one is expected to be set, mirroring schema.Datasource.
type DatasourceConfig struct {
	URL    string `toml:"url"`
	URLEnv string `toml:"url_env"`
}

// PoolConfig maps directly onto pool.Options, with durations expressed
// in milliseconds since TOML has no native duration type.
type PoolConfig struct {
	MaxConnections   int64 `toml:"max_connections"`
	MinConnections   int64 `toml:"min_connections"`
	AcquireTimeoutMS int64 `toml:"acquire_timeout_ms"`
}

// AcquireTimeout renders AcquireTimeoutMS as a time.Duration.
func (p PoolConfig) AcquireTimeout() time.Duration {
	return time.Duration(p.AcquireTimeoutMS) * time.Millisecond
}

// Options converts the decoded [pool] block into pool.Options, ready to
// pass to pool.Open alongside a Factory built from a resolved datasource
// URL. TestBeforeAcquire is left nil; callers that want probing wire it
// in after calling Options.
func (p PoolConfig) Options() pool.Options {
	return pool.Options{
		MaxConnections: p.MaxConnections,
		MinConnections: p.MinConnections,
		AcquireTimeout: p.AcquireTimeout(),
	}
}

// GeneratorConfig mirrors one `generator name { ... }` schema block,
// letting prax.toml supply or override generator output paths without
// editing the schema file.
type GeneratorConfig struct {
	Provider string `toml:"provider"`
	Output   string `toml:"output"`
}

// LoadConfig reads and decodes a prax.toml file at path.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, prax.Wrap(prax.KindConfig, err, "decode config %q", path)
	}
	return &cfg, nil
}

// DatasourceURL resolves the connection string configured for name,
// interpolating ${ENV_VAR} references lazily so a config file can be
// checked in without embedding secrets.
func (c *Config) DatasourceURL(name string) (string, error) {
	ds, ok := c.Datasources[name]
	if !ok {
		return "", prax.New(prax.KindConfig, "no datasource %q configured", name)
	}
	if ds.URLEnv != "" {
		v, ok := os.LookupEnv(ds.URLEnv)
		if !ok {
			return "", prax.New(prax.KindConfig, "datasource %q: environment variable %q is not set", name, ds.URLEnv)
		}
		return v, nil
	}
	return interpolateEnv(ds.URL)
}

// ResolveDatasourceURL resolves a schema-declared datasource's
// connection string the same way DatasourceURL does, for callers
// working directly from a parsed schema.Datasource rather than a
// prax.toml override.
func ResolveDatasourceURL(ds *schema.Datasource) (string, error) {
	if ds == nil {
		return "", prax.New(prax.KindConfig, "schema declares no datasource")
	}
	if ds.URLEnv != "" {
		v, ok := os.LookupEnv(ds.URLEnv)
		if !ok {
			return "", prax.New(prax.KindConfig, "datasource %q: environment variable %q is not set", ds.Name, ds.URLEnv)
		}
		return v, nil
	}
	return interpolateEnv(ds.URL)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnv replaces every ${NAME} reference in s with the named
// environment variable's value. A reference to an unset variable is an
// error rather than silently expanding to an empty string.
func interpolateEnv(s string) (string, error) {
	var firstErr error
	out := envRef.ReplaceAllStringFunc(s, func(ref string) string {
		if firstErr != nil {
			return ref
		}
		name := envRef.FindStringSubmatch(ref)[1]
		v, ok := os.LookupEnv(name)
		if !ok {
			firstErr = prax.New(prax.KindConfig, "environment variable %q referenced in %q is not set", name, s)
			return ref
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
