package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/usuarios-rbac/docs"
	"github.com/jhoicas/usuarios-rbac/internal/application/auth"
	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/application/usecase"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/seedfile"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/usuarios-rbac/internal/interfaces/http"
	"github.com/jhoicas/usuarios-rbac/pkg/config"
	"github.com/jhoicas/usuarios-rbac/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("config", cfg.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("abrir almacén de credenciales")
	}
	defer st.Close()

	// Aprovisionamiento: un fallo aquí es fatal, no se sirve con datos a medias.
	records, err := seedfile.Load(cfg.Seed.Path, seedfile.Options{Encoding: cfg.Seed.Encoding})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Seed.Path).Msg("leer datos semilla")
	}
	seeder := provisioning.NewSeeder(st.Tx, provisioning.BcryptHasher{Cost: cfg.Seed.BcryptCost}, cfg.Seed.DefaultPassword, log)
	seed := seeder.SeedIfEmpty
	if cfg.Seed.Reset {
		seed = seeder.Reseed
	}
	n, err := seed(ctx, records)
	if err != nil {
		log.Fatal().Err(err).Msg("aprovisionamiento")
	}
	log.Info().Int("insertados", n).Bool("reset", cfg.Seed.Reset).Msg("aprovisionamiento listo")

	authUC, err := auth.NewAuthUseCase(st.Usuarios, auth.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL(),
		Issuer: cfg.Session.Issuer,
	}, cfg.Seed.BcryptCost, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar auth")
	}
	usuarioUC := usecase.NewUsuarioUseCase(st.Usuarios)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Usuarios RBAC API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": st.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		UsuarioUC: usuarioUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL(),
			Secure: cfg.Session.Secure,
		},
		Logger: log,
	})

	// API primero, estáticos al final
	if info, err := os.Stat(cfg.HTTP.StaticDir); err == nil && info.IsDir() {
		app.Static("/", cfg.HTTP.StaticDir, fiber.Static{Index: "index.html"})
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
