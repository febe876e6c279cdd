package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config junta todo lo que el servicio lee del entorno. Sin valores el
// servicio arranca en modo dev: repos en memoria, auth por header de
// debug y sin cliente de mapas.
type Config struct {
	Port string

	// Ledger: Postgres si hay DSN, memoria si no.
	DBDSN string

	// Posiciones: Redis si hay addr, memoria si no.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Directory (auth externo).
	DirectoryBaseURL string
	DirectoryAPIKey  string
	DirectoryTimeout time.Duration

	// Servicio de direcciones.
	MapsBaseURL string
	MapsAPIKey  string
	MapsTimeout time.Duration
}

func FromEnv() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DBDSN: os.Getenv("DB_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		DirectoryBaseURL: os.Getenv("DIRECTORY_BASE_URL"),
		DirectoryAPIKey:  os.Getenv("DIRECTORY_API_KEY"),
		DirectoryTimeout: getenvDuration("DIRECTORY_TIMEOUT", 5*time.Second),

		MapsBaseURL: os.Getenv("MAPS_BASE_URL"),
		MapsAPIKey:  os.Getenv("MAPS_API_KEY"),
		MapsTimeout: getenvDuration("MAPS_TIMEOUT", 10*time.Second),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
