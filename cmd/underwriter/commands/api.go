package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/underwriter/internal/api"
	"github.com/wonny/underwriter/internal/api/handlers"
	"github.com/wonny/underwriter/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `견적 REST API 서버를 시작합니다.

Endpoints:
  GET  /health                   - Health check
  GET  /metrics                  - Prometheus metrics
  POST /api/quotes               - 견적 생성
  GET  /api/quotes/{id}          - 견적 조회
  POST /api/quotes/{id}/complete - 미완성 견적 완료
  POST /api/quotes/{id}/signed   - 서명 기록
  GET  /api/members/{id}/quotes  - 회원 견적 목록

Example:
  go run ./cmd/underwriter api
  go run ./cmd/underwriter api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort       string
	withScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "run background jobs in the API process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = a.metrics.Handler()
	}

	router := api.NewRouter(
		handlers.NewQuoteHandler(a.underwriter, log),
		handlers.NewHealthHandler("underwriter", a.health),
		metricsHandler,
		log,
	)
	server := api.New(cfg, log, router)

	if withScheduler {
		sched, err := newScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Listen(); err != nil {
		return err
	}
	fmt.Printf("✅ Server running on http://%s (Ctrl+C to stop)\n", server.Addr())

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}

// newScheduler registers the background jobs of a
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)
	job := scheduler.NewExpiredQuotesJob(a.store, a.metrics, a.log, a.cfg.Underwriting.ExpiredQuotesSchedule)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("register %s: %w", job.Name(), err)
	}
	return sched, nil
}
