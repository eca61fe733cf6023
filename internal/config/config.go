// Package config loads lattice's two configuration layers: the
// user-editable settings.toml (workspace root, enabled languages,
// project-config file lists — spec §6 "Persisted state layout") and
// the infrastructure configuration (Postgres, Valkey, MinIO/S3,
// Bedrock, Neo4j, the RPC server) read from the environment and an
// optional .env file, the same split the teacher's internal/config
// uses.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/latticecode/lattice/internal/ids"
	"github.com/latticecode/lattice/internal/lang"
)

// Config is the fully loaded configuration: project settings plus
// every infrastructure client's connection parameters.
type Config struct {
	Project  ProjectConfig
	Server   ServerConfig
	Database DatabaseConfig
	Graph    GraphConfig
	Bedrock  BedrockConfig
	Valkey   ValkeyConfig
	MinIO    MinIOConfig
	S3       S3Config
	OIDC     OIDCConfig
}

// ProjectConfig mirrors settings.toml, the on-disk, user-editable file
// under <index_root>.
type ProjectConfig struct {
	WorkspaceRoot      string              `toml:"workspace_root"`
	IndexRoot          string              `toml:"index_root"`
	EnabledLanguages   []string            `toml:"enabled_languages"`
	ProjectConfigFiles map[string][]string `toml:"project_config_files"`
}

// Settings converts the loaded ProjectConfig into the lang.Settings
// snapshot the indexer clones per worker. Its IndexRoot is the `index/`
// directory under the configured index root.
func (p ProjectConfig) Settings() lang.Settings {
	indexRoot := p.IndexRoot
	if indexRoot != "" {
		indexRoot = filepath.Join(indexRoot, "index")
	}
	enabled := make([]ids.LanguageId, len(p.EnabledLanguages))
	for i, l := range p.EnabledLanguages {
		enabled[i] = ids.LanguageId(l)
	}
	files := make(map[ids.LanguageId][]string, len(p.ProjectConfigFiles))
	for lng, paths := range p.ProjectConfigFiles {
		files[ids.LanguageId(lng)] = append([]string(nil), paths...)
	}
	return lang.Settings{
		WorkspaceRoot:      p.WorkspaceRoot,
		IndexRoot:          indexRoot,
		EnabledLanguages:   enabled,
		ProjectConfigFiles: files,
	}
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// GraphConfig is the subset of settings a graphsync.Client needs,
// mirroring the teacher's Neo4jConfig.
type GraphConfig struct {
	URI      string
	User     string
	Password string
}

type BedrockConfig struct {
	Region  string
	ModelID string
}

type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type S3Config struct {
	Region   string
	Bucket   string
	Prefix   string
	Endpoint string
}

// OIDCConfig configures the optional bearer-token middleware in
// internal/rpc/auth. IssuerURL empty means auth is disabled.
type OIDCConfig struct {
	IssuerURL string
	Audience  string
}

// Load reads settingsPath (settings.toml) and the process environment
// (after loading ".env", if present) into a Config. A missing
// settingsPath is not an error: ProjectConfig is left at its defaults
// and Settings() returns a Settings with no workspace root, which
// callers must then reject or prompt for, per their own entrypoint.
func Load(settingsPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	project, err := loadProjectConfig(settingsPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Project: project,
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECS", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECS", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "lattice"),
			Password: getEnv("DB_PASSWORD", "lattice"),
			Name:     getEnv("DB_NAME", "lattice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
		},
		Graph: GraphConfig{
			URI:      getEnv("NEO4J_URI", ""),
			User:     getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Bedrock: BedrockConfig{
			Region:  getEnv("BEDROCK_REGION", ""),
			ModelID: getEnv("BEDROCK_MODEL_ID", "cohere.embed-english-v4"),
		},
		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DB:       getEnvInt("VALKEY_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "lattice"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		S3: S3Config{
			Region:   getEnv("S3_REGION", ""),
			Bucket:   getEnv("S3_BUCKET", ""),
			Prefix:   getEnv("S3_PREFIX", ""),
			Endpoint: getEnv("S3_ENDPOINT", ""),
		},
		OIDC: OIDCConfig{
			IssuerURL: getEnv("OIDC_ISSUER_URL", ""),
			Audience:  getEnv("OIDC_AUDIENCE", ""),
		},
	}
	return cfg, nil
}

func loadProjectConfig(path string) (ProjectConfig, error) {
	var p ProjectConfig
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return p, nil
}

// Write persists p to path as settings.toml.
func (p ProjectConfig) Write(path string) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
