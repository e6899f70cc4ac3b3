package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	UploadDir   string // folder penyimpanan lampiran PDF DO
	Brands      []string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=inventory port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
	}

	for _, b := range strings.Split(getEnv("BRANDS", "gulavit,takokak"), ",") {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			cfg.Brands = append(cfg.Brands, b)
		}
	}

	// Pemeriksaan keamanan untuk production
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Environment variable JWT_SECRET belum diset! Wajib untuk production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET minimal 32 karakter! Risiko keamanan.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=inventory port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN memakai nilai default, untuk production wajib set koneksi Postgres sendiri.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS memakai nilai default, untuk production wajib set domain sendiri.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
