package domain

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// ChargeKind selects which rule set applies.
type ChargeKind string

const (
	ChargeKindDeposit    ChargeKind = "deposit"
	ChargeKindWithdrawal ChargeKind = "withdrawal"
)

// Charge component names.
const (
	ComponentPSPFee     = "psp_fee"
	ComponentSMSCharge  = "sms_charge"
	ComponentCommission = "commission"
	ComponentCompanyFee = "company_fee"
)

var hundred = decimal.NewFromInt(100)

// Rate is a flat amount plus a percentage of the transaction amount.
type Rate struct {
	Flat    decimal.Decimal
	Percent decimal.Decimal
}

// Apply returns the charge for amount, rounded to currency precision.
func (r Rate) Apply(amount decimal.Decimal) decimal.Decimal {
	return r.Flat.Add(amount.Mul(r.Percent).Div(hundred)).Round(CurrencyPlaces)
}

// ChargeRule prices one amount band of one channel.
// MinAmount is inclusive, MaxAmount is exclusive and nil means unbounded.
type ChargeRule struct {
	Kind       ChargeKind
	Channel    Channel
	MinAmount  decimal.Decimal
	MaxAmount  *decimal.Decimal
	Components map[string]Rate
}

// Matches reports whether the rule covers amount.
func (r *ChargeRule) Matches(amount decimal.Decimal) bool {
	if amount.LessThan(r.MinAmount) {
		return false
	}
	return r.MaxAmount == nil || amount.LessThan(*r.MaxAmount)
}

// component prices one named fee. NewChargePolicy guarantees every component of the
// rule's kind is present.
func (r *ChargeRule) component(name string, amount decimal.Decimal) decimal.Decimal {
	return r.Components[name].Apply(amount)
}

// DepositCharges is the fee breakdown of a wallet deposit.
type DepositCharges struct {
	PSPFee             decimal.Decimal
	SMSChargeToWallet  decimal.Decimal
	CommissionToWallet decimal.Decimal
}

// WithdrawalCharges is the fee breakdown of a wallet withdrawal.
type WithdrawalCharges struct {
	PSPFeeExpense      decimal.Decimal
	CompanyFeeToWallet decimal.Decimal
}

// ChargePolicy computes wallet fees from a fixed schedule. It has no state besides the schedule,
// so equal inputs always produce equal outputs.
type ChargePolicy struct {
	rules map[ChargeKind][]ChargeRule
}

// NewChargePolicy validates the rules and builds a policy.
func NewChargePolicy(rules []ChargeRule) (*ChargePolicy, error) {
	p := &ChargePolicy{rules: make(map[ChargeKind][]ChargeRule)}

	for _, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, err
		}
		p.rules[r.Kind] = append(p.rules[r.Kind], r)
	}

	for kind := range p.rules {
		sort.SliceStable(p.rules[kind], func(i, j int) bool {
			a, b := p.rules[kind][i], p.rules[kind][j]
			if a.Channel != b.Channel {
				return a.Channel < b.Channel
			}
			return a.MinAmount.LessThan(b.MinAmount)
		})

		if err := checkOverlaps(p.rules[kind]); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func validateRule(r ChargeRule) error {
	if r.Kind != ChargeKindDeposit && r.Kind != ChargeKindWithdrawal {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidChargeRule, r.Kind)
	}

	if r.Channel == "" {
		return fmt.Errorf("%w: channel is required", ErrInvalidChargeRule)
	}

	if r.MinAmount.IsNegative() {
		return fmt.Errorf("%w: %s/%s min amount is negative", ErrInvalidChargeRule, r.Kind, r.Channel)
	}

	if r.MaxAmount != nil && !r.MaxAmount.GreaterThan(r.MinAmount) {
		return fmt.Errorf("%w: %s/%s max amount must exceed min amount", ErrInvalidChargeRule, r.Kind, r.Channel)
	}

	required := kindComponents(r.Kind)
	for name, rate := range r.Components {
		if !slices.Contains(required, name) {
			return fmt.Errorf("%w: component %q not valid for %s", ErrInvalidChargeRule, name, r.Kind)
		}
		if rate.Flat.IsNegative() || rate.Percent.IsNegative() {
			return fmt.Errorf("%w: %s/%s component %q is negative", ErrInvalidChargeRule, r.Kind, r.Channel, name)
		}
	}

	// A zero fee must be written out; a missing one is a schedule error.
	for _, name := range required {
		if _, ok := r.Components[name]; !ok {
			return fmt.Errorf("%w: %s/%s missing component %q", ErrInvalidChargeRule, r.Kind, r.Channel, name)
		}
	}

	return nil
}

func kindComponents(kind ChargeKind) []string {
	if kind == ChargeKindDeposit {
		return []string{ComponentPSPFee, ComponentSMSCharge, ComponentCommission}
	}
	return []string{ComponentPSPFee, ComponentCompanyFee}
}

// checkOverlaps expects rules sorted by channel then min amount.
func checkOverlaps(rules []ChargeRule) error {
	for i := 1; i < len(rules); i++ {
		prev, cur := rules[i-1], rules[i]
		if prev.Channel != cur.Channel {
			continue
		}
		if prev.MaxAmount == nil || prev.MaxAmount.GreaterThan(cur.MinAmount) {
			return fmt.Errorf("%w: %s/%s bands overlap at %s", ErrInvalidChargeRule, cur.Kind, cur.Channel, cur.MinAmount)
		}
	}
	return nil
}

// findRule prefers an exact channel match and falls back to the wildcard channel.
func (p *ChargePolicy) findRule(kind ChargeKind, channel Channel, amount decimal.Decimal) (*ChargeRule, error) {
	var wildcard *ChargeRule

	rules := p.rules[kind]
	for i := range rules {
		r := &rules[i]
		if !r.Matches(amount) {
			continue
		}
		if r.Channel == channel {
			return r, nil
		}
		if r.Channel == ChannelAny && wildcard == nil {
			wildcard = r
		}
	}

	if wildcard != nil {
		return wildcard, nil
	}

	return nil, fmt.Errorf("%w: %s via %s for amount %s", ErrNoChargeRule, kind, channel, amount.StringFixed(CurrencyPlaces))
}

// DepositCharges returns the charges for a deposit transaction.
func (p *ChargePolicy) DepositCharges(tx *WalletTransaction) (*DepositCharges, error) {
	rule, err := p.findRule(ChargeKindDeposit, tx.Channel, tx.Amount)
	if err != nil {
		return nil, err
	}

	return &DepositCharges{
		PSPFee:             rule.component(ComponentPSPFee, tx.Amount),
		SMSChargeToWallet:  rule.component(ComponentSMSCharge, tx.Amount),
		CommissionToWallet: rule.component(ComponentCommission, tx.Amount),
	}, nil
}

// WithdrawalCharges returns the charges for a withdrawal transaction.
func (p *ChargePolicy) WithdrawalCharges(tx *WalletTransaction) (*WithdrawalCharges, error) {
	rule, err := p.findRule(ChargeKindWithdrawal, tx.Channel, tx.Amount)
	if err != nil {
		return nil, err
	}

	return &WithdrawalCharges{
		PSPFeeExpense:      rule.component(ComponentPSPFee, tx.Amount),
		CompanyFeeToWallet: rule.component(ComponentCompanyFee, tx.Amount),
	}, nil
}
