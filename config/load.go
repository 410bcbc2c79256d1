package config

import (
	"log/slog"
	"os"
	"strconv"
)

func Load() App {
	cfg := App{
		Port:             getenv("APP_PORT", "8080"),
		DatabaseURL:      must("DATABASE_URL"),
		JWTSecret:        getenv("JWT_SECRET", "local_dev_secret"),
		MovieDBKey:       os.Getenv("MOVIEDB_KEY"),
		Env:              getenv("APP_ENV", "dev"),
		AllowOverbooking: getbool("RENTAL_ALLOW_OVERBOOKING", true),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("bad bool env, using default", "key", k, "value", v)
		return def
	}
	return b
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
