package cryptotax

import (
	"maps"
	"slices"

	"github.com/etnz/cryptotax/date"
)

// Ledger holds the outcome of a calculation run: every disposal result, every
// income event, the warnings and the running totals.
//
// A Ledger is immutable once returned by Run.
type Ledger struct {
	method       CostBasisMethod
	currency     string
	longTermDays int
	period       *date.Range // nil for a full run.

	disposals []DisposalResult
	incomes   []IncomeEvent
	warnings  []Warning
	lots      []LotView // final inventory, per asset then creation order.

	proceeds      Money
	costBasis     Money
	shortTermGain Money
	shortTermLoss Money // as a non negative amount.
	longTermGain  Money
	longTermLoss  Money // as a non negative amount.

	income map[IncomeKind]IncomeTotal
}

func newLedger(method CostBasisMethod, currency string, longTermDays int) *Ledger {
	zero := M(0, currency)
	return &Ledger{
		method:        method,
		currency:      currency,
		longTermDays:  longTermDays,
		proceeds:      zero,
		costBasis:     zero,
		shortTermGain: zero,
		shortTermLoss: zero,
		longTermGain:  zero,
		longTermLoss:  zero,
		income:        make(map[IncomeKind]IncomeTotal),
	}
}

// addDisposal appends r and routes its gain or loss into exactly one bucket.
// A zero gain lands in none.
func (l *Ledger) addDisposal(r DisposalResult) {
	l.disposals = append(l.disposals, r)
	l.proceeds = l.proceeds.Add(r.Proceeds)
	l.costBasis = l.costBasis.Add(r.CostBasis)
	switch {
	case r.IsGain() && r.LongTerm:
		l.longTermGain = l.longTermGain.Add(r.GainLoss)
	case r.IsGain():
		l.shortTermGain = l.shortTermGain.Add(r.GainLoss)
	case r.IsLoss() && r.LongTerm:
		l.longTermLoss = l.longTermLoss.Add(r.GainLoss.Neg())
	case r.IsLoss():
		l.shortTermLoss = l.shortTermLoss.Add(r.GainLoss.Neg())
	}
}

func (l *Ledger) addIncome(e IncomeEvent) {
	l.incomes = append(l.incomes, e)
	t, ok := l.income[e.Kind]
	if !ok {
		t.Amount = M(0, l.currency)
	}
	l.income[e.Kind] = t.add(e.FMV)
}

func (l *Ledger) addWarning(w Warning) { l.warnings = append(l.warnings, w) }

// Method returns the cost basis method used for the run.
func (l *Ledger) Method() CostBasisMethod { return l.method }

// Currency returns the reporting currency.
func (l *Ledger) Currency() string { return l.currency }

// LongTermDays returns the holding period threshold used for the run.
func (l *Ledger) LongTermDays() int { return l.longTermDays }

// Period returns the calendar range the ledger is restricted to, and false for a full run.
func (l *Ledger) Period() (date.Range, bool) {
	if l.period == nil {
		return date.Range{}, false
	}
	return *l.period, true
}

// Disposals returns the disposal results in processing order.
func (l *Ledger) Disposals() []DisposalResult { return slices.Clone(l.disposals) }

// Incomes returns the income events in processing order.
func (l *Ledger) Incomes() []IncomeEvent { return slices.Clone(l.incomes) }

// Warnings returns the skipped or flagged transactions in processing order.
func (l *Ledger) Warnings() []Warning { return slices.Clone(l.warnings) }

// Inventory returns the lots at the end of the run, exhausted ones included.
func (l *Ledger) Inventory() []LotView { return slices.Clone(l.lots) }

func (l *Ledger) Proceeds() Money  { return l.proceeds }
func (l *Ledger) CostBasis() Money { return l.costBasis }

// ShortTermGain is the sum of short term gains.
func (l *Ledger) ShortTermGain() Money { return l.shortTermGain }

// ShortTermLoss is the sum of short term losses, as a non negative amount.
func (l *Ledger) ShortTermLoss() Money { return l.shortTermLoss }
func (l *Ledger) LongTermGain() Money  { return l.longTermGain }
func (l *Ledger) LongTermLoss() Money  { return l.longTermLoss }

// ShortTermNet returns short term gains minus short term losses.
func (l *Ledger) ShortTermNet() Money { return l.shortTermGain.Sub(l.shortTermLoss) }

// LongTermNet returns long term gains minus long term losses.
func (l *Ledger) LongTermNet() Money { return l.longTermGain.Sub(l.longTermLoss) }

// NetGainLoss returns the sum of every disposal's gain or loss.
func (l *Ledger) NetGainLoss() Money { return l.ShortTermNet().Add(l.LongTermNet()) }

// DisposedQuantity returns the total quantity of asset disposed of.
func (l *Ledger) DisposedQuantity(asset string) Quantity {
	var q Quantity
	for _, r := range l.disposals {
		if r.Asset == asset {
			q = q.Add(r.Quantity)
		}
	}
	return q
}

// IncomeByKind returns the income totals per kind.
func (l *Ledger) IncomeByKind() map[IncomeKind]IncomeTotal { return maps.Clone(l.income) }

// TotalIncome returns the sum of all income events.
func (l *Ledger) TotalIncome() IncomeTotal {
	total := IncomeTotal{Amount: M(0, l.currency)}
	for _, k := range slices.Sorted(maps.Keys(l.income)) {
		t := l.income[k]
		total.Amount = total.Amount.Add(t.Amount)
		total.Count += t.Count
	}
	return total
}

// Year returns a new Ledger restricted to the disposals, income events and
// warnings dated in calendar year y. Undated warnings are kept in every year.
// Totals are recomputed, the inventory is the one at the end of the full run.
func (l *Ledger) Year(y int) *Ledger {
	r := date.YearRange(y)
	out := newLedger(l.method, l.currency, l.longTermDays)
	out.period = &r
	out.lots = l.lots
	for _, d := range l.disposals {
		if r.Contains(date.Of(d.DisposedAt)) {
			out.addDisposal(d)
		}
	}
	for _, e := range l.incomes {
		if r.Contains(date.Of(e.ReceivedAt)) {
			out.addIncome(e)
		}
	}
	for _, w := range l.warnings {
		if w.On.IsZero() || r.Contains(w.On) {
			out.addWarning(w)
		}
	}
	return out
}

// Summary returns the totals of the ledger.
func (l *Ledger) Summary() Summary {
	return Summary{
		Method:        l.method,
		Disposals:     len(l.disposals),
		Proceeds:      l.proceeds,
		CostBasis:     l.costBasis,
		ShortTermGain: l.shortTermGain,
		ShortTermLoss: l.shortTermLoss,
		LongTermGain:  l.longTermGain,
		LongTermLoss:  l.longTermLoss,
		Net:           l.NetGainLoss(),
		Income:        l.TotalIncome(),
		Warnings:      len(l.warnings),
	}
}

// Summary is the set of totals of a Ledger.
type Summary struct {
	Method        CostBasisMethod
	Disposals     int
	Proceeds      Money
	CostBasis     Money
	ShortTermGain Money
	ShortTermLoss Money
	LongTermGain  Money
	LongTermLoss  Money
	Net           Money
	Income        IncomeTotal
	Warnings      int
}

func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("method", s.Method)
	w.Append("disposals", s.Disposals)
	w.Append("proceeds", s.Proceeds)
	w.Append("cost_basis", s.CostBasis)
	w.Append("short_term_gain", s.ShortTermGain)
	w.Append("short_term_loss", s.ShortTermLoss)
	w.Append("long_term_gain", s.LongTermGain)
	w.Append("long_term_loss", s.LongTermLoss)
	w.Append("net_gain_loss", s.Net)
	w.Append("income", s.Income)
	w.Append("warnings", s.Warnings)
	return w.MarshalJSON()
}

// MarshalJSON encodes the ledger deterministically: two runs over the same
// transactions produce the same bytes.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("method", l.method)
	w.Append("currency", l.currency)
	w.Append("long_term_days", l.longTermDays)
	if l.period != nil {
		w.Append("from", l.period.From)
		w.Append("to", l.period.To)
	}
	w.Append("totals", l.Summary())

	// income by kind, in kind order.
	var byKind jsonObjectWriter
	for _, k := range slices.Sorted(maps.Keys(l.income)) {
		byKind.Append(string(k), l.income[k])
	}
	w.Append("income_by_kind", &byKind)

	w.Append("disposals", nonNil(l.disposals))
	w.Append("income", nonNil(l.incomes))
	w.Append("warnings", nonNil(l.warnings))
	w.Append("lots", nonNil(l.lots))
	return w.MarshalJSON()
}

// nonNil encodes empty lists as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
