package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AgusMolinaCode/usuarios-api/internal/config"
	"github.com/AgusMolinaCode/usuarios-api/internal/database"
	"github.com/AgusMolinaCode/usuarios-api/internal/logging"
	"github.com/AgusMolinaCode/usuarios-api/internal/repository"
	routes "github.com/AgusMolinaCode/usuarios-api/internal/server"
	"github.com/AgusMolinaCode/usuarios-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Carregar configuração (.env + variáveis de ambiente)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}

	logger := logging.Init(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	// Inicializar banco de dados
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("erro ao conectar ao banco de dados")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("erro ao fechar o banco")
		}
	}()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("erro ao sincronizar o esquema")
	}

	router := routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Store:       repository.NewUserRepository(db),
		Credentials: services.NewCredentials([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.BcryptCost),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("servidor rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("erro ao iniciar o servidor")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("erro no shutdown")
	}
}
