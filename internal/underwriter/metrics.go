package underwriter

// Metrics records underwriting outcomes. *metrics.Metrics implements it.
type Metrics interface {
	GuidelinesBreached(market string, codes []string)
	RequoteBlocked(variant, initiatedFrom string)
	PriceDecided(variant string, reused bool, reason string)
	QuoteCreated(variant, state string)
	CollaboratorFailed(check string, failedOpen bool)
}

type nopMetrics struct{}

func (nopMetrics) GuidelinesBreached(string, []string) {}
func (nopMetrics) RequoteBlocked(string, string)       {}
func (nopMetrics) PriceDecided(string, bool, string)   {}
func (nopMetrics) QuoteCreated(string, string)         {}
func (nopMetrics) CollaboratorFailed(string, bool)     {}

// Collaborator checks reported to CollaboratorFailed
const (
	CheckDebt       = "debt_check"
	CheckBlock      = "block_check"
	CheckPriceReuse = "price_reuse"
)
