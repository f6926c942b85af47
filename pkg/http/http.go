package http

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pancake/pancake/pkg/log"
	"github.com/gofiber/fiber/v2"
)

/**
 * @file: http.go
 * @description: http server
 */

type Http struct {
	Host            string
	Port            int
	Mode            string
	ContextPath     string `mapstructure:"contextPath"`
	BodyLimit       int    `mapstructure:"bodyLimit"`
	PProf           bool
	ExposeMetrics   bool `mapstructure:"exposeMetrics"`
	AccessLog       bool `mapstructure:"accessLog"`
	ReadTimeout     int  `mapstructure:"readTimeout"`
	WriteTimeout    int  `mapstructure:"writeTimeout"`
	IdleTimeout     int  `mapstructure:"idleTimeout"`
	ShutdownTimeout int  `mapstructure:"shutdownTimeout"`
	TLS             TLS
	Auth            Auth
}

type TLS struct {
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

type Auth struct {
	SecretKey     string        `mapstructure:"secretKey"`
	AccessExpire  time.Duration `mapstructure:"accessExpire"`  // minutes
	RefreshExpire time.Duration `mapstructure:"refreshExpire"` // minutes
}

func NewHttp(cfg Http) *Http {
	return &cfg
}

// Server starts the fiber app and returns a blocking shutdown hook.
func (h *Http) Server(app *fiber.App) func() {
	addr := fmt.Sprintf("%s:%d", h.Host, h.Port)

	go func() {
		fmt.Printf("[Init] http server start at: %s\n", addr)

		var err error
		if h.TLS.CertFile != "" && h.TLS.KeyFile != "" {
			err = app.ListenTLS(addr, h.TLS.CertFile, h.TLS.KeyFile)
		} else {
			err = app.Listen(addr)
		}
		if err != nil {
			panic(err)
		}
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return func() {
		<-sc
		fmt.Println("[shutdown] server is shutting down...")

		timeout := time.Second * time.Duration(h.ShutdownTimeout)
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			log.Errorf("server shutdown error: %v", err)
		}
		fmt.Println("[shutdown] http exit...")
	}
}
