package config

type App struct {
	Port             string `env:"APP_PORT" default:"8080"`
	DatabaseURL      string `env:"DATABASE_URL,required"`
	JWTSecret        string `env:"JWT_SECRET,required"`
	MovieDBKey       string `env:"MOVIEDB_KEY"`
	Env              string `env:"APP_ENV" default:"dev"`
	AllowOverbooking bool   `env:"RENTAL_ALLOW_OVERBOOKING" default:"true"`
}
