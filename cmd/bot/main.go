package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/bot"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/config"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/telegram-ledger-recorder/internal/interfaces"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/ledger"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/logger"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/storage/memory"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/storage/postgres"
	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/storage/sheets"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot, _ := logger.New(logger.DefaultConfig())
		boot.Fatal("invalid configuration", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		boot, _ := logger.New(logger.DefaultConfig())
		boot.Fatal("failed to create logger", zap.Error(err))
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("bot stopped with error", zap.Error(err))
	}
	log.Sync()
}

// run owns every resource opened after configuration, so its deferred
// cleanup runs before main exits on error.
func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tables := ledger.Tables{Ledger: cfg.Sheets.LedgerTable, Sales: cfg.Sheets.SalesTable}

	store, closeStore, err := openStore(ctx, cfg, tables, log)
	if err != nil {
		return fmt.Errorf("open %s table store: %w", cfg.Storage.Backend, err)
	}
	defer closeStore()

	var opts []ledger.Option
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		opts = append(opts, ledger.WithPublisher(publisher))
		log.Info("publishing events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	ledgerService := ledger.NewLedger(store, tables, opts...)
	processor := bot.NewProcessor(ledgerService)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = cfg.Telegram.Debug
	log.Info("authorized on telegram", zap.String("username", api.Self.UserName))

	if cfg.HTTP.Port != "" {
		srv := startHealthServer(cfg.HTTP.Port, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	return bot.NewBot(api, processor, log, cfg.Telegram.PollTimeout).Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, tables ledger.Tables, log *zap.Logger) (interfaces.TableStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewPostgresTableStore(db, tables)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("using postgres table store")
		return store, func() { db.Close() }, nil
	case config.BackendMemory:
		log.Warn("using in-memory table store, rows are lost on restart")
		return memory.NewMemoryTableStore(), func() {}, nil
	default:
		store, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:    cfg.Sheets.SpreadsheetID,
			SpreadsheetName:  cfg.Sheets.SpreadsheetName,
			Credentials:      cfg.Sheets.Credentials,
			ValueInputOption: cfg.Sheets.ValueInputOption,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using google sheets table store",
			zap.String("sheet_name", cfg.Sheets.SpreadsheetName),
			zap.String("spreadsheet_id", store.SpreadsheetID()),
		)
		return store, func() {}, nil
	}
}

func startHealthServer(port string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health endpoint listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server failed", zap.Error(err))
		}
	}()
	return srv
}
