package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/internal/guidelineconfig"
	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/internal/strategy"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "가이드라인 오프라인 평가",
	Long: `견적 데이터를 가이드라인으로 평가합니다. 외부 서비스/DB 호출 없음.

Input is a tagged quote data document:
  {"variant": "apartment", "data": {"ssn": "...", "householdSize": 2, ...}}

Example:
  go run ./cmd/underwriter evaluate --file quote.json
  go run ./cmd/underwriter evaluate --file quote.json --debt RED --guidelines limits.yaml
  cat quote.json | go run ./cmd/underwriter evaluate`,
	RunE: runEvaluate,
}

var (
	evaluateFile       string
	evaluateDebt       string
	evaluateGuidelines string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFile, "file", "f", "", "quote data file (default: stdin)")
	evaluateCmd.Flags().StringVar(&evaluateDebt, "debt", "", "debt flag to evaluate with (GREEN|AMBER|RED, empty: unknown)")
	evaluateCmd.Flags().StringVar(&evaluateGuidelines, "guidelines", "", "guideline limits file (default: built-in)")
}

// EvaluationReport is the output of the evaluate command
type EvaluationReport struct {
	Variant            quote.Variant `json:"variant"`
	Market             quote.Market  `json:"market"`
	Complete           bool          `json:"complete"`
	Guidelines         int           `json:"guidelines"`
	BreachedGuidelines []string      `json:"breachedGuidelines"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd.InOrStdin())
	if err != nil {
		return err
	}

	data, err := quote.UnmarshalData(raw)
	if err != nil {
		return err
	}

	debt, err := parseDebtFlag(evaluateDebt)
	if err != nil {
		return err
	}

	limits, err := guidelineconfig.LoadOrDefault(evaluateGuidelines)
	if err != nil {
		return fmt.Errorf("load guidelines: %w", err)
	}

	report, err := evaluate(data, debt, limits, time.Now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// evaluate runs the variant's guidelines over complete data
func evaluate(data quote.Data, debt guideline.DebtFlag, limits *guidelineconfig.Config, now func() time.Time) (EvaluationReport, error) {
	report := EvaluationReport{
		Variant:            data.Variant(),
		Market:             data.Market(),
		Complete:           data.IsComplete(),
		BreachedGuidelines: []string{},
	}
	if !report.Complete {
		return report, fmt.Errorf("%s data is incomplete, guidelines only run on complete data", data.Variant())
	}

	s := strategy.NewDispatcher(limits, nil).WithClock(now).Resolve(data, debt)
	guidelines := s.Guidelines()
	report.Guidelines = len(guidelines)
	if breached := guideline.Evaluate(guidelines, data); len(breached) > 0 {
		report.BreachedGuidelines = breached
	}
	return report, nil
}

func readInput(stdin io.Reader) ([]byte, error) {
	if evaluateFile == "" || evaluateFile == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(evaluateFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", evaluateFile, err)
	}
	return raw, nil
}

func parseDebtFlag(s string) (guideline.DebtFlag, error) {
	switch flag := guideline.DebtFlag(strings.ToUpper(strings.TrimSpace(s))); flag {
	case guideline.DebtGreen, guideline.DebtAmber, guideline.DebtRed, guideline.DebtUnknown:
		return flag, nil
	default:
		return "", fmt.Errorf("invalid debt flag %q (expected GREEN, AMBER or RED)", s)
	}
}
