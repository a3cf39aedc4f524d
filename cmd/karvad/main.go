package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"karvachain/config"
	"karvachain/core/events"
	"karvachain/core/state"
	"karvachain/native/cert"
	nativecommon "karvachain/native/common"
	"karvachain/native/dac"
	"karvachain/native/market"
	"karvachain/native/status"
	"karvachain/native/token"
	"karvachain/native/validator"
	"karvachain/observability"
	"karvachain/observability/logging"
	"karvachain/storage"
)

type engines struct {
	manager    *state.Manager
	tokens     *token.Engine
	certs      *cert.Engine
	orders     *market.Engine
	dac        *dac.Registry
	statuses   *status.Registry
	validators *validator.Registry
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	simulate := flag.Bool("simulate", false, "Run a DAC reading / mint / trade demo loop")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("KARVA_ENV"))
	logger := logging.Setup("karvad", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	eng, err := wireEngines(cfg, db, logger)
	if err != nil {
		logger.Error("Failed to wire engines", slog.Any("error", err))
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.OpsAddress, Handler: router}
	go func() {
		logger.Info("Ops endpoint listening", slog.String("address", cfg.OpsAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Ops endpoint failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *simulate {
		go runSimulation(ctx, eng, logger)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("Shutdown complete")
}

func wireEngines(cfg *config.Config, db storage.Database, logger *slog.Logger) (*engines, error) {
	manager := state.NewManager(db)
	emitter := logEmitter{logger: logger}

	// The daemon is a single-operator host: every locally submitted
	// operation is witness-approved. Multi-party hosts supply a real
	// signature-backed authorizer instead.
	auth := nativecommon.AuthorizerFunc(func([20]byte) bool { return true })
	pauses := nativecommon.NewPauseSet(cfg.PausedModules)

	tokens := token.NewEngine()
	tokens.SetState(manager)
	tokens.SetAuthorizer(auth)
	tokens.SetEmitter(emitter)
	tokens.SetPauses(pauses)
	if _, ok := tokens.Spec(cfg.SettlementToken); !ok {
		return nil, fmt.Errorf("settlement token %q is not a registered token kind", cfg.SettlementToken)
	}

	certs := cert.NewEngine()
	certs.SetState(manager)
	certs.SetAuthorizer(auth)
	certs.SetEmitter(emitter)
	certs.SetPauses(pauses)

	orders := market.NewEngine(tokens)
	orders.SetState(manager)
	orders.SetAuthorizer(auth)
	orders.SetEmitter(emitter)
	orders.SetPauses(pauses)
	orders.SetSettlementToken(cfg.SettlementToken)
	orders.SetFeeBps(cfg.TradeFeeBps)
	treasury, err := cfg.FeeTreasuryAddress()
	if err != nil {
		return nil, err
	}
	orders.SetFeeTreasury(treasury)

	readings := dac.NewRegistry()
	readings.SetState(manager)
	readings.SetEmitter(emitter)

	statuses := status.NewRegistry()
	statuses.SetState(manager)
	statuses.SetEmitter(emitter)

	validators := validator.NewRegistry()
	validators.SetState(manager)
	validators.SetAuthorizer(auth)
	validators.SetEmitter(emitter)

	return &engines{
		manager:    manager,
		tokens:     tokens,
		certs:      certs,
		orders:     orders,
		dac:        readings,
		statuses:   statuses,
		validators: validators,
	}, nil
}

// runSimulation drives the whole pipeline once per tick: a sequestration
// reading, a reward mint, certificate issuance for the read tonnage, and a
// marketplace round trip.
func runSimulation(ctx context.Context, eng *engines, logger *slog.Logger) {
	project := addressOf(0x01)
	buyer := addressOf(0x02)
	metrics := observability.EngineMetrics()

	step := func(module, op string, fn func() error) error {
		start := time.Now()
		err := state.Apply(eng.manager, fn)
		metrics.RecordOp(module, op, start, err)
		return err
	}

	if err := step("validator", "add", func() error {
		return eng.validators.Add(project)
	}); err != nil {
		logger.Warn("Validator registration failed", slog.Any("error", err))
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var readingIndex uint64
		if err := step("dac", "submit_reading", func() error {
			index, err := eng.dac.SubmitReading(project, 5)
			readingIndex = index
			return err
		}); err != nil {
			logger.Warn("Reading submission failed", slog.Any("error", err))
			continue
		}

		if err := step("validator", "validate_reading", func() error {
			_, err := eng.validators.ValidateReading(project, project, readingIndex)
			return err
		}); err != nil {
			logger.Warn("Reading validation failed", slog.Any("error", err))
		}

		if err := step("token", "mint", func() error {
			return eng.tokens.Mint(token.SymbolSUDHI, project, big.NewInt(500))
		}); err != nil && !errors.Is(err, token.ErrMintTooSoon) {
			logger.Warn("Reward mint failed", slog.Any("error", err))
		}

		var certIDs []uint64
		if err := step("cert", "issue_batch", func() error {
			ids, err := eng.certs.IssueBatch(project, 5)
			certIDs = ids
			return err
		}); err != nil {
			logger.Warn("Certificate issuance failed", slog.Any("error", err))
			continue
		}

		if len(certIDs) > 0 {
			if err := step("status", "set_status", func() error {
				return eng.statuses.SetStatus(certIDs[0], status.StatusByproductTradeable)
			}); err != nil {
				logger.Warn("Status update failed", slog.Any("error", err))
			}
		}

		var orderID uint64
		if err := step("market", "create_order", func() error {
			id, err := eng.orders.CreateOrder(project, token.SymbolSUDHI, big.NewInt(5), big.NewInt(10))
			orderID = id
			return err
		}); err != nil {
			logger.Warn("Order creation failed", slog.Any("error", err))
			continue
		}

		if err := step("token", "mint_buyer", func() error {
			return eng.tokens.Mint(token.SymbolKV1, buyer, big.NewInt(1000))
		}); err != nil && !errors.Is(err, token.ErrMintTooSoon) {
			logger.Warn("Buyer funding failed", slog.Any("error", err))
		}

		if err := step("market", "match_order", func() error {
			return eng.orders.MatchOrder(orderID, buyer, big.NewInt(5))
		}); err != nil {
			logger.Warn("Order match failed", slog.Any("error", err))
		}
	}
}

func addressOf(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

// logEmitter forwards engine events to the structured logger.
type logEmitter struct {
	logger *slog.Logger
}

func (l logEmitter) Emit(evt events.Event) {
	if l.logger == nil {
		return
	}
	attrs := make([]any, 0, len(evt.Attributes)*2+2)
	attrs = append(attrs, slog.String("event", evt.Type))
	for key, value := range evt.Attributes {
		attrs = append(attrs, slog.String(key, value))
	}
	l.logger.Info("Engine event", attrs...)
}
