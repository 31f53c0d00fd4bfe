package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/shipment"
	"github.com/jhoicas/Almacen-api/internal/application/space"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Almacen-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/jhoicas/Almacen-api/pkg/tracing"
)

const swaggerFile = "./docs/swagger.json"

// stores repositorios y runner según DB_DRIVER.
type stores struct {
	txRunner      ports.TxRunner
	zoneRepo      repository.ZoneRepository
	inventoryRepo repository.InventoryRepository
	shipmentRepo  repository.ShipmentRepository
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Otel, cfg.App.Env)
	if err != nil {
		log.Error().Err(err).Msg("configurar trazas; se continúa sin exportador")
	}

	st := openStores(ctx, cfg, log)
	defer st.close()

	locker, closeLocker := newLocker(ctx, cfg, log)
	defer closeLocker()

	events, closeEvents := newPublisher(cfg, log)
	defer closeEvents()

	spaceUC := space.NewSpaceUseCase(st.txRunner, st.zoneRepo, locker, events, log)
	shipmentUC := shipment.NewShipmentUseCase(st.txRunner, st.shipmentRepo, locker, events, log)
	inventoryUC := inventory.NewInventoryUseCase(st.txRunner, st.inventoryRepo, locker, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en http://localhost:<port>/docs, sólo si se generó la especificación (swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Almacén API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		SpaceUC:     spaceUC,
		ShipmentUC:  shipmentUC,
		InventoryUC: inventoryUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Log:         log,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(
			app.ShutdownWithContext(shutdownCtx),
			shutdownTracing(shutdownCtx),
		)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("servidor finalizado con error")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return stores{
			txRunner:      store,
			zoneRepo:      store.Zones(),
			inventoryRepo: store.Inventory(),
			shipmentRepo:  store.Shipments(),
			close:         func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	return stores{
		txRunner:      postgres.NewTxRunner(pool),
		zoneRepo:      postgres.NewZoneRepository(pool),
		inventoryRepo: postgres.NewInventoryRepository(pool),
		shipmentRepo:  postgres.NewShipmentRepository(pool),
		close:         pool.Close,
	}
}

func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.Locker, func()) {
	if cfg.Redis.Addr == "" {
		return memory.NewLocker(), func() {}
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo distribuido en Redis")
	return infraredis.NewLocker(client, cfg.Lock.TTL, cfg.Lock.RetryDelay, log.Component("redis-lock")), func() { _ = client.Close() }
}

func newPublisher(cfg *config.Config, log *logger.Logger) (ports.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		return ports.NopPublisher{}, func() {}
	}
	pub := kafka.NewPublisher(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos hacia Kafka")
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar productor Kafka")
		}
	}
}
