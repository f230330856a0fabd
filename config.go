package sharedmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// StorageType selects the engine that holds a table's entries.
type StorageType uint8

const (
	// StorageHash keeps entries in a built-in map.
	StorageHash StorageType = iota
	// StorageRadix keeps entries in an adaptive radix tree.
	StorageRadix
	// StorageOrdered keeps entries in a skiplist sorted by key.
	StorageOrdered
)

const (
	defaultStorage    StorageType = StorageHash
	defaultShardCount int         = 1

	// DefaultEnvPrefix is the environment prefix LoadConfig reads, e.g. SHAREDMAP_SHARD_COUNT.
	DefaultEnvPrefix = "SHAREDMAP_"
)

var ErrInvalidStorage = errors.New("invalid storage type")

var storageNames = map[StorageType]string{
	StorageHash:    "hash",
	StorageRadix:   "radix",
	StorageOrdered: "ordered",
}

func (s StorageType) String() string {
	if name, ok := storageNames[s]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

// ParseStorage converts a storage name ("hash", "radix", "ordered") to a StorageType.
func ParseStorage(name string) (StorageType, error) {
	for typ, n := range storageNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return typ, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStorage, name)
}

type Config struct {
	Storage StorageType // Engine holding the entries, StorageHash by default.

	// ShardCount splits the table into independently locked partitions.
	// 1 (the default) guards the whole table with a single lock.
	ShardCount int

	Logger     hclog.Logger          // nil discards logs.
	Registerer prometheus.Registerer // nil disables metrics.
}

func DefaultConfig() Config {
	return Config{
		Storage:    defaultStorage,
		ShardCount: defaultShardCount,
	}
}

// LoadConfig builds a Config from an optional YAML file and environment
// variables carrying envPrefix. Environment values override the file.
//
//	storage: radix
//	shard_count: 8
func LoadConfig(path, envPrefix string) (Config, error) {
	cfg := DefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if envPrefix != "" {
		transform := func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, envPrefix))
		}
		if err := k.Load(env.Provider(envPrefix, ".", transform), nil); err != nil {
			return cfg, fmt.Errorf("load config env: %w", err)
		}
	}

	if k.Exists("storage") {
		typ, err := ParseStorage(k.String("storage"))
		if err != nil {
			return cfg, err
		}
		cfg.Storage = typ
	}
	if k.Exists("shard_count") {
		n, err := strconv.Atoi(strings.TrimSpace(k.String("shard_count")))
		if err != nil {
			return cfg, fmt.Errorf("parse shard_count: %w", err)
		}
		cfg.ShardCount = n
	}
	return cfg, nil
}
