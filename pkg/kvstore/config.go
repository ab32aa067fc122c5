package kvstore

import "time"

// Config describes the storage selection inputs. Fields can be populated
// from environment variables via the config package.
type Config struct {
	// RedisURL enables the Redis tier when set, e.g. "redis://localhost:6379/0".
	RedisURL string `env:"STORAGE_REDIS_URL"`
	// RedisPrefix namespaces every key written by the Redis tier.
	RedisPrefix string `env:"STORAGE_REDIS_PREFIX" envDefault:"clientkit:"`
	// DataDir is the directory for the file tier. Empty means the
	// user-level config directory reported by the operating system.
	DataDir string `env:"STORAGE_DIR"`
	// FileName is the store file name inside DataDir.
	FileName string `env:"STORAGE_FILE_NAME" envDefault:"session.json"`
	// ConnectTimeout bounds the Redis reachability probe during selection.
	ConnectTimeout time.Duration `env:"STORAGE_CONNECT_TIMEOUT" envDefault:"3s"`
}
