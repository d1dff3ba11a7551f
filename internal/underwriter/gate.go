package underwriter

import "fmt"

// =============================================================================
// Block gate
// =============================================================================

// GateMode 재견적 차단 게이트 동작 모드
type GateMode string

const (
	GateModeShadow  GateMode = "shadow"  // 로깅/메트릭만, 실제 차단 안함
	GateModeEnforce GateMode = "enforce" // 실제 차단
	GateModeOff     GateMode = "off"     // 비활성화 (조회도 안함)
)

// ParseGateMode parses a mode from configuration
func ParseGateMode(s string) (GateMode, error) {
	switch mode := GateMode(s); mode {
	case GateModeShadow, GateModeEnforce, GateModeOff:
		return mode, nil
	case "":
		return GateModeShadow, nil
	default:
		return "", fmt.Errorf("invalid block mode %q (expected off, shadow or enforce)", s)
	}
}
