package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teambook/internal/addressbook"
	"teambook/internal/env"
	"teambook/internal/handler"
	"teambook/internal/metrics"
	"teambook/internal/repository"
	csvrepo "teambook/internal/repository/csv"
	sqliterepo "teambook/internal/repository/sqlite"
	yamlrepo "teambook/internal/repository/yaml"
	"teambook/internal/routes"
	"teambook/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg := env.MustLoad()

	root := &cobra.Command{
		Use:          "teambook",
		Short:        "Adressbuch für Teams mit Personen, Tags und Teams",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg, logger)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP-Server starten (Standard)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg, logger)
		},
	}
	serveCmd.Flags().StringVar(&cfg.ServerAddr, "addr", cfg.ServerAddr, "Adresse des HTTP-Servers (env SERVER_ADDR)")
	serveCmd.Flags().StringVar(&cfg.DataSource, "source", cfg.DataSource, "Datenquelle: memory|csv|sqlite|yaml (env DATA_SOURCE)")

	var exportFormat, exportOut string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Konfigurierte Datenquelle in ein anderes Format schreiben",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if exportOut == "" {
				return fmt.Errorf("--out ist erforderlich")
			}
			return export(cmd.Context(), cfg, exportFormat, exportOut, logger)
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Zielformat: csv|sqlite|yaml")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Zielverzeichnis (csv) bzw. Zieldatei (sqlite, yaml)")

	root.AddCommand(serveCmd, exportCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("befehl fehlgeschlagen", zap.Error(err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg env.Config, logger *zap.Logger) error {
	logger.Info("konfiguration geladen",
		zap.String("data_source", cfg.DataSource),
		zap.String("data_path", cfg.DataPath),
		zap.String("server_addr", cfg.ServerAddr),
		zap.Float64("rate_limit", cfg.RateLimit),
		zap.Int("max_persons", cfg.MaxPersons),
		zap.Bool("autosave", cfg.Autosave),
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("metriken registrieren: %w", err)
	}

	svc, cleanup, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	h := handler.NewAddressBookHandler(svc, logger)
	r := chi.NewRouter()
	routes.Setup(r, h, logger, cfg.RateLimit, prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server wird gestartet", zap.String("adresse", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	logger.Info("server wird heruntergefahren")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erzwungenes herunterfahren: %w", err)
	}
	logger.Info("server gestoppt")
	return nil
}

// export lädt die konfigurierte Datenquelle und schreibt ihren Stand im
// gewünschten Format nach out.
func export(ctx context.Context, cfg env.Config, format, out string, logger *zap.Logger) error {
	svc, cleanup, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	target, closeTarget, err := openRepo(format, out, logger)
	if err != nil {
		return err
	}
	defer closeTarget()

	if err := target.Save(ctx, svc.Snapshot(ctx)); err != nil {
		return fmt.Errorf("export nach %s: %w", out, err)
	}

	fields := []zap.Field{
		zap.String("format", format),
		zap.String("ziel", out),
		zap.String("stand", svc.Stats(ctx)),
	}
	if rev, ok := target.(revisioned); ok {
		r, err := rev.LastRevision(ctx)
		if err != nil {
			return fmt.Errorf("revision nach export: %w", err)
		}
		fields = append(fields, zap.String("revision", r.ID.String()))
	}
	logger.Info("export abgeschlossen", fields...)
	return nil
}

// revisioned wird von Repositories erfüllt, die jede Speicherung als Revision
// protokollieren.
type revisioned interface {
	LastRevision(ctx context.Context) (sqliterepo.Revision, error)
}

// newService baut Adressbuch, Repository und Service gemäß cfg und lädt den
// gespeicherten Stand.
func newService(ctx context.Context, cfg env.Config, logger *zap.Logger) (*service.AddressBookService, func(), error) {
	repo, cleanup, err := initRepo(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	book := addressbook.New(
		addressbook.WithLogger(logger),
		addressbook.WithPruneOnAdd(cfg.PruneTagsOnAdd),
		addressbook.WithPruneOnRemove(cfg.PruneTagsOnRemove),
	)
	svc := service.NewAddressBookService(book, repo, service.Config{
		MaxPersons: cfg.MaxPersons,
		Autosave:   cfg.Autosave,
	}, logger)
	if err := svc.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// initRepo erstellt je nach DATA_SOURCE das passende SnapshotRepository.
// Bei "memory" wird nichts gespeichert.
func initRepo(cfg env.Config, logger *zap.Logger) (repository.SnapshotRepository, func(), error) {
	switch cfg.DataSource {
	case "memory", "":
		return nil, func() {}, nil
	case "csv":
		return openRepo("csv", cfg.DataPath, logger)
	case "sqlite":
		return openRepo("sqlite", filepath.Join(cfg.DataPath, "teambook.db"), logger)
	case "yaml":
		return openRepo("yaml", filepath.Join(cfg.DataPath, "teambook.yaml"), logger)
	default:
		return nil, nil, fmt.Errorf("unbekannte datenquelle %q", cfg.DataSource)
	}
}

// openRepo öffnet ein Repository des angegebenen Formats unter path. Die
// zurückgegebene cleanup-Funktion gibt belegte Ressourcen frei.
func openRepo(format, path string, logger *zap.Logger) (repository.SnapshotRepository, func(), error) {
	switch format {
	case "csv":
		repo, err := csvrepo.NewSnapshotRepository(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("verzeichnis für %s: %w", path, err)
		}
		repo, err := sqliterepo.NewSnapshotRepository(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case "yaml":
		return yamlrepo.NewSnapshotRepository(path, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unbekanntes format %q", format)
	}
}
