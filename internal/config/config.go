package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileVar names an explicit .env file to load before anything else.
const EnvFileVar = "ENV_FILE"

// LoadEnv loads variables from the first .env file found among ENV_FILE,
// the project root (one level above the working directory) and the given
// extra candidates. When none exists it falls back to godotenv's default
// lookup of ./.env. Variables already set in the process are never
// overridden. The returned path is empty when nothing was loaded from a
// candidate.
func LoadEnv(extra ...string) string {
	for _, path := range candidates(extra) {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	// Tidak error kalau file tidak ada.
	_ = godotenv.Load()
	return ""
}

func candidates(extra []string) []string {
	var out []string
	if explicit := strings.TrimSpace(os.Getenv(EnvFileVar)); explicit != "" {
		out = append(out, explicit)
	}
	if wd, err := os.Getwd(); err == nil {
		out = append(out, filepath.Join(filepath.Dir(wd), ".env"))
	}
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
