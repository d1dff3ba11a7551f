package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `백그라운드 작업을 실행합니다.

등록되는 작업:
- expired_quotes: 유효기간이 지난 미서명 견적 수 집계 (EXPIRED_QUOTES_SCHEDULE)

Example:
  go run ./cmd/underwriter scheduler start
  go run ./cmd/underwriter scheduler run expired_quotes`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}
	sched.Start()

	fmt.Println("✅ Scheduler started")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := newScheduler(a)
	if err != nil {
		return err
	}

	result, err := sched.RunNow(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("job %s failed after %d attempt(s): %s", result.JobName, result.Attempts, result.Error)
	}

	fmt.Printf("✅ %s completed in %s\n", result.JobName, result.Duration)
	return nil
}
