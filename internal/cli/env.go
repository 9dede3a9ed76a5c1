package cli

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file from the working directory into the
// process environment. A missing .env is not an error; most invocations
// won't have one.
func LoadDotenv() {
	_ = godotenv.Load()
}

// GetenvDefault returns the named environment variable, or def if unset.
func GetenvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// GetenvInt returns the named environment variable parsed as an int, and
// whether it was present and valid.
func GetenvInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
