package main

import (
	"context"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/balance-ledger/internal/balancedelivery"
	"github.com/go-petr/balance-ledger/internal/balancerepo"
	"github.com/go-petr/balance-ledger/internal/balanceservice"
	"github.com/go-petr/balance-ledger/internal/middleware"
	"github.com/go-petr/balance-ledger/pkg/configpkg"
	"github.com/go-petr/balance-ledger/pkg/lockpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	// One process-wide client shared by all in-flight operations.
	client := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(config.RedisHost, config.RedisPort),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", client.Options().Addr).Msg("cannot connect to redis")
	}

	logger.Info().Str("addr", client.Options().Addr).Msg("connected to redis")

	server := createServer(client, logger, config)

	err = server.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func createServer(client *redis.Client, logger zerolog.Logger, config configpkg.Config) *gin.Engine {
	balanceRepo := balancerepo.NewRepoRedis(client)
	locker := lockpkg.New(client, config.LockLeaseDuration, config.LockWaitDuration)

	balanceService := balanceservice.New(balanceRepo, locker, config.DefaultBalance)
	balanceHandler := balancedelivery.NewHandler(balanceService)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	server.Use(middleware.RequestLogger(logger))
	server.Use(gin.Recovery())

	server.POST("/reset", balanceHandler.Reset)
	server.POST("/charge", balanceHandler.Charge)

	return server
}
