package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRegime is returned for any regime code outside Anexo I..V
	ErrInvalidRegime = errors.New("invalid regime")
	// ErrInvalidActivity is returned for unknown activity tags
	ErrInvalidActivity = errors.New("invalid activity type")
	// ErrInvalidDirection is returned for unknown transaction directions
	ErrInvalidDirection = errors.New("invalid transaction direction")
	// ErrInvalidCategory is returned for unknown product categories
	ErrInvalidCategory = errors.New("invalid product category")
)

// Regime identifies one of the five Simples Nacional annexes
type Regime string

const (
	RegimeI   Regime = "I"   // commerce
	RegimeII  Regime = "II"  // industry
	RegimeIII Regime = "III" // services, Factor R >= 28%
	RegimeIV  Regime = "IV"  // services, employer CPP collected outside the DAS
	RegimeV   Regime = "V"   // services, Factor R < 28%
)

// Regimes returns every regime in annex order
func Regimes() []Regime {
	return []Regime{RegimeI, RegimeII, RegimeIII, RegimeIV, RegimeV}
}

// ParseRegime converts a regime code such as "III" or "anexo iii" into a Regime
func ParseRegime(s string) (Regime, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	code = strings.TrimPrefix(code, "ANEXO")
	code = strings.TrimSpace(code)
	r := Regime(code)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRegime, s)
	}
	return r, nil
}

// Valid reports whether r is one of the five known annexes
func (r Regime) Valid() bool {
	switch r {
	case RegimeI, RegimeII, RegimeIII, RegimeIV, RegimeV:
		return true
	}
	return false
}

// ServiceRegime reports whether the annex taxes service revenue (ISS instead of ICMS)
func (r Regime) ServiceRegime() bool {
	switch r {
	case RegimeIII, RegimeIV, RegimeV:
		return true
	}
	return false
}

// String returns the annex label, e.g. "Anexo III"
func (r Regime) String() string {
	return "Anexo " + string(r)
}

// UnmarshalText rejects unknown codes while decoding YAML or JSON
func (r *Regime) UnmarshalText(text []byte) error {
	parsed, err := ParseRegime(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText keeps the bare code on the wire
func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// ActivityType classifies the company's (or a transaction's) economic activity
type ActivityType string

const (
	ActivityCommerce ActivityType = "commerce"
	ActivityIndustry ActivityType = "industry"
	ActivityService  ActivityType = "service"
)

// ParseActivityType accepts the English tags and the Portuguese labels used by the portal
func ParseActivityType(s string) (ActivityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "commerce", "comercio", "comércio":
		return ActivityCommerce, nil
	case "industry", "industria", "indústria":
		return ActivityIndustry, nil
	case "service", "servico", "serviço":
		return ActivityService, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidActivity, s)
}

// Valid reports whether a is a known activity
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityCommerce, ActivityIndustry, ActivityService:
		return true
	}
	return false
}

// UnmarshalText rejects unknown activity tags
func (a *ActivityType) UnmarshalText(text []byte) error {
	parsed, err := ParseActivityType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText keeps the canonical tag on the wire
func (a ActivityType) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

// DefaultActivity maps an annex to the activity it normally covers
func DefaultActivity(r Regime) ActivityType {
	switch r {
	case RegimeI:
		return ActivityCommerce
	case RegimeII:
		return ActivityIndustry
	default:
		return ActivityService
	}
}
