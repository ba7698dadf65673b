package dues

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

// Schedule maps a membership type to its annual dues amount.
type Schedule struct {
	amounts map[domain.MembershipType]decimal.Decimal
}

// AmountFor returns the dues amount for a membership type.
func (s Schedule) AmountFor(membershipType domain.MembershipType) (decimal.Decimal, bool) {
	amount, ok := s.amounts[membershipType]
	return amount, ok
}

// Default returns the compiled-in fee schedule used when no schedule file is
// configured.
func Default() Schedule {
	return Schedule{amounts: map[domain.MembershipType]decimal.Decimal{
		domain.MembershipProbation: decimal.NewFromInt(50),
		domain.MembershipFull:      decimal.NewFromInt(100),
		domain.MembershipHonorary:  decimal.NewFromInt(75),
		domain.MembershipSenator:   decimal.Zero,
		domain.MembershipVisiting:  decimal.NewFromInt(60),
	}}
}

type scheduleFile struct {
	Dues map[string]string `yaml:"dues"`
}

// Load reads a YAML fee schedule. Types absent from the file keep their
// compiled-in default amounts.
func Load(path string) (Schedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to read dues schedule %s: %w", path, err)
	}
	var file scheduleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Schedule{}, fmt.Errorf("failed to parse dues schedule %s: %w", path, err)
	}

	schedule := Default()
	for name, value := range file.Dues {
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return Schedule{}, fmt.Errorf("invalid dues amount %q for type %s: %w", value, name, err)
		}
		if amount.IsNegative() {
			return Schedule{}, fmt.Errorf("dues amount for type %s must not be negative", name)
		}
		schedule.amounts[domain.MembershipType(name)] = amount
	}
	return schedule, nil
}
