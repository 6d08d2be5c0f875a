package app

import (
	"context"

	spinAPI "slot_engine/internal/api/spin"
	"slot_engine/internal/config"
	"slot_engine/internal/config/env"
	"slot_engine/internal/engine"
	"slot_engine/internal/publisher"
	"slot_engine/internal/publisher/amqp_publisher"
	"slot_engine/internal/repository"
	"slot_engine/internal/repository/machine_state_repo"
	"slot_engine/internal/repository/session_repo"
	"slot_engine/internal/repository/spin_history_repo"
	"slot_engine/internal/service"
	"slot_engine/internal/service/calibrate"
	"slot_engine/internal/service/spin"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	// Logger
	logger *zap.Logger

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Machine bits
	machineCfg config.MachineConfig
	stateRepo  repository.MachineStateRepository
	evaluator  engine.Evaluator

	// Session and history bits
	sessionRepo repository.SessionRepository
	historyRepo repository.SpinHistoryRepository

	// Publisher bits
	amqpCfg config.AMQPConfig
	sink    publisher.SpinSink

	// Services and handler
	spinServ        service.SpinService
	calibrationServ service.CalibrationService
	spinHand        *spinAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.logger == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.logger = logger
	}
	return sp.logger
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) MachineCfg() config.MachineConfig {
	if sp.machineCfg == nil {
		cfg, err := env.NewMachineConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get machine config: " + err.Error())
		}
		sp.machineCfg = cfg
	}
	return sp.machineCfg
}

// MachineStateRepository собирает модель барабанов и профиль волатильности
// из конфигурации. Ошибки конфигурации фатальны на старте
func (sp *ServiceProvider) MachineStateRepository() repository.MachineStateRepository {
	if sp.stateRepo == nil {
		cfg := sp.MachineCfg()

		specs := make([]engine.SymbolSpec, 0, len(cfg.Symbols()))
		for _, s := range cfg.Symbols() {
			specs = append(specs, engine.SymbolSpec{
				ID:         s.ID,
				Multiplier: s.Multiplier,
				Weight:     s.Weight,
			})
		}
		table, err := engine.NewSymbolTable(specs)
		if err != nil {
			panic("failed to build symbol table: " + err.Error())
		}

		var reelModel *engine.ReelModel
		if weights := cfg.ReelWeights(); weights != nil {
			reelModel, err = engine.NewReelModel(table, weights)
		} else {
			reelModel, err = engine.NewUniformReelModel(table, cfg.ReelCount())
		}
		if err != nil {
			panic("failed to build reel model: " + err.Error())
		}

		bands := make([]engine.VolatilityBand, 0, len(cfg.VolatilityBands()))
		for _, b := range cfg.VolatilityBands() {
			bands = append(bands, engine.VolatilityBand{From: b.From, Factor: b.Factor})
		}
		if len(bands) == 0 {
			bands = engine.DefaultVolatilityBands()
		}
		volatility, err := engine.NewVolatilityProfile(cfg.Volatility(), bands)
		if err != nil {
			panic("failed to build volatility profile: " + err.Error())
		}

		sp.stateRepo = machine_state_repo.NewMachineStateRepository(reelModel, volatility, cfg.TargetRTP())
	}
	return sp.stateRepo
}

func (sp *ServiceProvider) Evaluator() engine.Evaluator {
	if sp.evaluator == nil {
		sp.evaluator = engine.NewMatchCountEvaluator()
	}
	return sp.evaluator
}

func (sp *ServiceProvider) payoutRule() engine.PayoutRule {
	return engine.PayoutRule{MinMatchCount: sp.MachineCfg().MinMatchCount()}
}

func (sp *ServiceProvider) SessionRepository() repository.SessionRepository {
	if sp.sessionRepo == nil {
		sp.sessionRepo = session_repo.NewSessionRepository()
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) SpinHistoryRepository(ctx context.Context) repository.SpinHistoryRepository {
	if sp.historyRepo == nil {
		sp.historyRepo = spin_history_repo.NewSpinHistoryRepository(sp.DBClient(ctx), trmpgx.DefaultCtxGetter)
	}
	return sp.historyRepo
}

func (sp *ServiceProvider) AMQPCfg() config.AMQPConfig {
	if sp.amqpCfg == nil {
		cfg, err := env.NewAMQPConfig()
		if err != nil {
			panic("failed to get amqp config: " + err.Error())
		}
		sp.amqpCfg = cfg
	}
	return sp.amqpCfg
}

func (sp *ServiceProvider) SpinSink() publisher.SpinSink {
	if sp.sink == nil {
		cfg := sp.AMQPCfg()
		if !cfg.Enabled() {
			sp.sink = publisher.NewNoopSink()
			return sp.sink
		}

		sink, err := amqp_publisher.NewAMQPSink(cfg.URL(), cfg.Exchange(), cfg.RoutingKey())
		if err != nil {
			panic("failed to connect to amqp broker: " + err.Error())
		}
		sp.sink = sink
	}
	return sp.sink
}

func (sp *ServiceProvider) SpinService(ctx context.Context) service.SpinService {
	if sp.spinServ == nil {
		sp.spinServ = spin.NewSpinService(
			sp.MachineStateRepository(),
			sp.SessionRepository(),
			sp.SpinHistoryRepository(ctx),
			sp.TXManager(ctx),
			sp.SpinSink(),
			sp.Evaluator(),
			sp.payoutRule(),
			engine.NewCryptoSource(),
			sp.Logger(),
		)
	}
	return sp.spinServ
}

func (sp *ServiceProvider) CalibrationService() service.CalibrationService {
	if sp.calibrationServ == nil {
		sp.calibrationServ = calibrate.NewCalibrationService(
			sp.MachineStateRepository(),
			sp.MachineCfg(),
			sp.Evaluator(),
			sp.payoutRule(),
			sp.Logger(),
		)
	}
	return sp.calibrationServ
}

func (sp *ServiceProvider) SpinHandler(ctx context.Context) *spinAPI.Handler {
	if sp.spinHand == nil {
		sp.spinHand = spinAPI.NewHandler(spinAPI.HandlerDeps{
			SpinServ:        sp.SpinService(ctx),
			CalibrationServ: sp.CalibrationService(),
		})
	}
	return sp.spinHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}
	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Engine endpoints
		spinHandler := sp.SpinHandler(ctx)
		r.Route("/engine", func(rr chi.Router) {
			rr.Post("/spin", spinHandler.Spin)
			rr.Post("/calibrate", spinHandler.Calibrate)
			rr.Get("/state", spinHandler.MachineState)
			rr.Get("/session/{id}", spinHandler.SessionState)
		})

		sp.router = r
	}

	return sp.router
}
