package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/auth"
	"github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/customer"
	"github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/rental"
	"github.com/sophieemessing/video-store-consumer-api/app/echoServer/controller/video"
	"github.com/sophieemessing/video-store-consumer-api/app/echoServer/jwtx"
)

type C struct {
	Auth      *auth.Controller
	Video     *video.Controller
	Customer  *customer.Controller
	Rental    *rental.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.GET("/zomg", func(c echo.Context) error {
		return c.String(http.StatusOK, "it works!")
	})

	e.GET("/videos", c.Video.Index)
	e.GET("/videos/:title", c.Video.Show)
	e.GET("/customers", c.Customer.Index)

	e.POST("/rentals/:title/check-out", c.Rental.CheckOut)
	e.POST("/rentals/:title/check-in", c.Rental.CheckIn)
	e.GET("/rentals/overdue", c.Rental.Overdue)

	e.POST("/staff/register", c.Auth.Register)
	e.POST("/staff/login", c.Auth.Login)

	// Staff-only catalog administration
	staff := e.Group("")
	staff.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	staff.Use(requireStaff)

	staff.POST("/videos", c.Video.Create)
}

func requireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, err := jwtx.RoleFromContext(c)
		if err != nil || role != "staff" {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		}
		if id, err := jwtx.StaffIDFromContext(c); err == nil {
			c.Set("staff_id", id)
		}
		return next(c)
	}
}
