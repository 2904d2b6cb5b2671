package main

import (
	"context"
	"log/slog"
	"os"

	"slotwise/config"
	"slotwise/internal/delivery"
	"slotwise/internal/delivery/api"
	"slotwise/internal/delivery/api/router/handler"
	"slotwise/internal/domain/service"
	logs "slotwise/internal/infra/log"
	"slotwise/internal/infra/persistence/postgres"
	"slotwise/internal/infra/persistence/redis"
	"slotwise/internal/infra/pubsub"
	"slotwise/internal/infra/qrcode"
	"slotwise/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			redis.New,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewLocationRepository,
			postgres.NewZoneRepository,
			postgres.NewRuleRepository,
			postgres.NewWeightRepository,
			postgres.NewSlotRepository,
			postgres.NewBookingRepository,
			postgres.NewAuditRepository,
			postgres.NewTransactionManager,
			redis.NewPreferenceRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewEligibilityService,
			impl.NewRecommendationService,
			impl.NewBookingService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewEligibilityHandler,
			handler.NewRecommendationHandler,
			handler.NewBookingHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
