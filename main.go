// Package main video store API.
//
// @title           Video Store Consumer API
// @version         1.0
// @description     video rental backend (catalog, customers, rentals, overdue).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sophieemessing/video-store-consumer-api/app/echoServer"
	authctrl "github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/auth"
	customerctrl "github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/customer"
	rentalctrl "github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/rental"
	videoctrl "github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/video"
	"github.com/sophieemessing/video-store-consumer-api/app/echoServer/validation"
	"github.com/sophieemessing/video-store-consumer-api/config"
	customerrepo "github.com/sophieemessing/video-store-consumer-api/repository/customer"
	"github.com/sophieemessing/video-store-consumer-api/repository/moviedb"
	rentalrepo "github.com/sophieemessing/video-store-consumer-api/repository/rental"
	staffrepo "github.com/sophieemessing/video-store-consumer-api/repository/staff"
	videorepo "github.com/sophieemessing/video-store-consumer-api/repository/video"
	authsvc "github.com/sophieemessing/video-store-consumer-api/service/auth"
	customersvc "github.com/sophieemessing/video-store-consumer-api/service/customer"
	rentalsvc "github.com/sophieemessing/video-store-consumer-api/service/rental"
	videosvc "github.com/sophieemessing/video-store-consumer-api/service/video"
	"github.com/sophieemessing/video-store-consumer-api/util/clock"
	"github.com/sophieemessing/video-store-consumer-api/util/database"
	"github.com/sophieemessing/video-store-consumer-api/util/httpx"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	vr := videorepo.New(db)
	cr := customerrepo.New(db)
	rr := rentalrepo.New(db)
	sr := staffrepo.New(db)
	mv := moviedb.NewHTTP(cfg.MovieDBKey, httpx.Client())

	// services
	as := authsvc.New(sr, cfg.JWTSecret)
	vs := videosvc.New(vr, mv)
	cs := customersvc.New(cr)
	rs := rentalsvc.New(rr, clock.System{}, cfg.AllowOverbooking)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	videoC := &videoctrl.Controller{Svc: vs, V: v, Log: log}
	customerC := &customerctrl.Controller{Svc: cs, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, Videos: vs, Customers: cs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Video:     videoC,
		Customer:  customerC,
		Rental:    rentalC,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
