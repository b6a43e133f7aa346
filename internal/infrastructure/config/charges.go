package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/iho/walletledger/internal/domain"
)

type chargeScheduleFile struct {
	Rules []chargeRuleFile `mapstructure:"rules"`
}

type chargeRuleFile struct {
	Kind       string              `mapstructure:"kind"`
	Channel    string              `mapstructure:"channel"`
	MinAmount  string              `mapstructure:"min_amount"`
	MaxAmount  string              `mapstructure:"max_amount"`
	Components map[string]rateFile `mapstructure:"components"`
}

type rateFile struct {
	Flat    string `mapstructure:"flat"`
	Percent string `mapstructure:"percent"`
}

// LoadChargePolicy reads a charge schedule file (YAML, JSON or TOML) and builds the policy.
// Amounts are decimal strings; an empty max_amount means the band has no upper bound.
func LoadChargePolicy(path string) (*domain.ChargePolicy, error) {
	rules, err := LoadChargeSchedule(path)
	if err != nil {
		return nil, err
	}

	return domain.NewChargePolicy(rules)
}

// LoadChargeSchedule reads the charge rules from path without validating band overlaps.
func LoadChargeSchedule(path string) ([]domain.ChargeRule, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: read charge schedule %s: %v", domain.ErrConfiguration, path, err)
	}

	var file chargeScheduleFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("%w: decode charge schedule %s: %v", domain.ErrConfiguration, path, err)
	}

	rules := make([]domain.ChargeRule, 0, len(file.Rules))
	for i, r := range file.Rules {
		rule, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func (r chargeRuleFile) toDomain() (domain.ChargeRule, error) {
	rule := domain.ChargeRule{
		Kind:       domain.ChargeKind(strings.ToLower(r.Kind)),
		Channel:    domain.Channel(strings.ToUpper(r.Channel)),
		Components: make(map[string]domain.Rate, len(r.Components)),
	}
	if strings.TrimSpace(r.Channel) == "" {
		return rule, fmt.Errorf("%w: channel is required, use %q for any channel", domain.ErrInvalidChargeRule, domain.ChannelAny)
	}

	var err error
	if rule.MinAmount, err = parseAmount(r.MinAmount, "min_amount"); err != nil {
		return rule, err
	}

	if strings.TrimSpace(r.MaxAmount) != "" {
		maxAmount, err := parseAmount(r.MaxAmount, "max_amount")
		if err != nil {
			return rule, err
		}
		rule.MaxAmount = &maxAmount
	}

	for name, rate := range r.Components {
		flat, err := parseAmount(rate.Flat, name+".flat")
		if err != nil {
			return rule, err
		}
		percent, err := parseAmount(rate.Percent, name+".percent")
		if err != nil {
			return rule, err
		}
		rule.Components[name] = domain.Rate{Flat: flat, Percent: percent}
	}

	return rule, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a decimal", domain.ErrInvalidChargeRule, field, s)
	}

	return d, nil
}
