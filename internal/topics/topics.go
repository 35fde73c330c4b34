package topics

import "strings"

// ID is the stable identifier of one interview topic.
type ID string

const (
	BusinessOverview        ID = "business_overview"
	ProductServiceFootprint ID = "product_service_footprint"
	HistoricalFinancials    ID = "historical_financial_performance"
	ManagementTeam          ID = "management_team"
	GrowthStrategy          ID = "growth_strategy_projections"
	CompetitivePositioning  ID = "competitive_positioning"
	PrecedentTransactions   ID = "precedent_transactions"
	ValuationOverview       ID = "valuation_overview"
	StrategicBuyers         ID = "strategic_buyers"
	FinancialBuyers         ID = "financial_buyers"
	SEAConglomerates        ID = "sea_conglomerates"
	MarginCostResilience    ID = "margin_cost_resilience"
	InvestorConsiderations  ID = "investor_considerations"
	InvestorProcessOverview ID = "investor_process_overview"
)

// Topic is one fixed, ordered subject area the interview must cover.
// Hints are lowercase keywords used only by the satisfaction scorer.
type Topic struct {
	ID    ID
	Index int
	Hints []string
}

// ordered catalog; index positions are part of the interview contract.
var catalog = []Topic{
	{ID: BusinessOverview, Hints: []string{"industry", "sector", "business", "model", "employees", "offices", "founded"}},
	{ID: ProductServiceFootprint, Hints: []string{"product", "service", "customer", "client", "solution", "differentiation"}},
	{ID: HistoricalFinancials, Hints: []string{"revenue", "sales", "ebitda", "margin", "growth", "profit"}},
	{ID: ManagementTeam, Hints: []string{"ceo", "cfo", "founder", "executive", "management", "background"}},
	{ID: GrowthStrategy, Hints: []string{"growth", "strategy", "projection", "expansion", "plan", "target"}},
	{ID: CompetitivePositioning, Hints: []string{"competitor", "competition", "advantage", "market", "share", "position"}},
	{ID: PrecedentTransactions, Hints: []string{"transaction", "acquisition", "merger", "deal", "valuation", "multiple"}},
	{ID: ValuationOverview, Hints: []string{"valuation", "dcf", "multiple", "comps", "precedent", "enterprise"}},
	{ID: StrategicBuyers, Hints: []string{"buyer", "acquirer", "strategic", "synergy", "rationale", "capacity"}},
	{ID: FinancialBuyers, Hints: []string{"private", "equity", "pe", "fund", "investor", "criteria"}},
	{ID: SEAConglomerates, Hints: []string{"conglomerate", "asia", "sea", "singapore", "regional", "group"}},
	{ID: MarginCostResilience, Hints: []string{"margin", "cost", "resilience", "scalable", "efficiency", "structure"}},
	{ID: InvestorConsiderations, Hints: []string{"risk", "opportunity", "challenge", "threat", "mitigation", "upside"}},
	{ID: InvestorProcessOverview, Hints: []string{"process", "timeline", "diligence", "documentation", "requirements"}},
}

func init() {
	for i := range catalog {
		catalog[i].Index = i
	}
}

// Count reports how many topics the interview covers.
func Count() int { return len(catalog) }

// ByIndex returns the topic at position idx. Out-of-range indexes map to the
// first topic so callers never observe an invalid topic.
func ByIndex(idx int) Topic {
	if idx < 0 || idx >= len(catalog) {
		return catalog[0]
	}
	return catalog[idx]
}

// Lookup resolves a topic by its stable ID.
func Lookup(id ID) (Topic, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// IndexOf returns the catalog position of id, or -1 when unknown.
func IndexOf(id ID) int {
	if t, ok := Lookup(id); ok {
		return t.Index
	}
	return -1
}

// All returns a copy of the catalog in interview order.
func All() []Topic {
	out := make([]Topic, len(catalog))
	copy(out, catalog)
	return out
}

// DisplayName renders an ID for humans (underscores become spaces).
func DisplayName(id ID) string {
	return strings.ReplaceAll(string(id), "_", " ")
}
