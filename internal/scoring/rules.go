package scoring

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParserKind selects how a window of rolls is turned into a frame.
type ParserKind int

const (
	ParserStandard ParserKind = iota
	ParserLowball
)

func (k ParserKind) String() string {
	switch k {
	case ParserStandard:
		return "standard"
	case ParserLowball:
		return "lowball"
	}
	return fmt.Sprintf("ParserKind(%d)", int(k))
}

func (k ParserKind) MarshalText() ([]byte, error) {
	if _, ok := parsers[k]; !ok {
		return nil, fmt.Errorf("%w: unknown parser %d", ErrConfiguration, int(k))
	}
	return []byte(k.String()), nil
}

func (k *ParserKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "standard":
		*k = ParserStandard
	case "lowball":
		*k = ParserLowball
	default:
		return fmt.Errorf("%w: unknown parser %q", ErrConfiguration, string(b))
	}
	return nil
}

// TriggeringRule matches when the first TriggeringRollCount rolls of a window
// add up to at least TriggeringValueThreshold. The frame then scores the
// first RollsToScoreCount rolls of the window.
type TriggeringRule struct {
	TriggeringRollCount      int `yaml:"triggering_rolls" json:"triggeringRolls"`
	TriggeringValueThreshold int `yaml:"triggering_value" json:"triggeringValue"`
	RollsToScoreCount        int `yaml:"rolls_to_score" json:"rollsToScore"`
}

// RuleConfig describes one bowling variant. Rules are evaluated in order and
// the first match wins, so the last rule must be a catch-all.
type RuleConfig struct {
	Name            string           `yaml:"name" json:"name"`
	NumberOfFrames  int              `yaml:"frames" json:"frames"`
	MaxRollsPerTurn int              `yaml:"max_rolls_per_turn" json:"maxRollsPerTurn"`
	Pins            int              `yaml:"pins" json:"pins"`
	Parser          ParserKind       `yaml:"parser" json:"parser"`
	TriggeringRules []TriggeringRule `yaml:"rules" json:"rules"`
}

// Validate reports a malformed rule table as ErrConfiguration.
func (c RuleConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: variant has no name", ErrConfiguration)
	}
	if c.NumberOfFrames < 1 {
		return fmt.Errorf("%w: %s: frames must be positive, got %d", ErrConfiguration, c.Name, c.NumberOfFrames)
	}
	if c.MaxRollsPerTurn < 1 {
		return fmt.Errorf("%w: %s: max rolls per turn must be positive, got %d", ErrConfiguration, c.Name, c.MaxRollsPerTurn)
	}
	if c.Pins < 1 {
		return fmt.Errorf("%w: %s: pins must be positive, got %d", ErrConfiguration, c.Name, c.Pins)
	}
	if _, ok := parsers[c.Parser]; !ok {
		return fmt.Errorf("%w: %s: unknown parser %d", ErrConfiguration, c.Name, int(c.Parser))
	}
	if c.Parser != ParserStandard {
		return nil
	}
	if len(c.TriggeringRules) == 0 {
		return fmt.Errorf("%w: %s: standard parser needs triggering rules", ErrConfiguration, c.Name)
	}
	for i, r := range c.TriggeringRules {
		if r.TriggeringRollCount < 1 || r.RollsToScoreCount < r.TriggeringRollCount {
			return fmt.Errorf("%w: %s: rule %d: need 1 <= triggering rolls (%d) <= rolls to score (%d)",
				ErrConfiguration, c.Name, i+1, r.TriggeringRollCount, r.RollsToScoreCount)
		}
	}
	if last := c.TriggeringRules[len(c.TriggeringRules)-1]; last.TriggeringValueThreshold != 0 {
		return fmt.Errorf("%w: %s: last rule must be a catch-all with threshold 0, got %d",
			ErrConfiguration, c.Name, last.TriggeringValueThreshold)
	}
	return nil
}

var (
	TenPin = RuleConfig{
		Name:            "TENPIN",
		NumberOfFrames:  10,
		MaxRollsPerTurn: 2,
		Pins:            10,
		Parser:          ParserStandard,
		TriggeringRules: []TriggeringRule{
			{TriggeringRollCount: 1, TriggeringValueThreshold: 10, RollsToScoreCount: 3},
			{TriggeringRollCount: 2, TriggeringValueThreshold: 10, RollsToScoreCount: 3},
			{TriggeringRollCount: 2, TriggeringValueThreshold: 0, RollsToScoreCount: 2},
		},
	}
	NoTap = RuleConfig{
		Name:            "NOTAP",
		NumberOfFrames:  10,
		MaxRollsPerTurn: 2,
		Pins:            10,
		Parser:          ParserStandard,
		TriggeringRules: []TriggeringRule{
			{TriggeringRollCount: 1, TriggeringValueThreshold: 9, RollsToScoreCount: 3},
			{TriggeringRollCount: 2, TriggeringValueThreshold: 9, RollsToScoreCount: 3},
			{TriggeringRollCount: 2, TriggeringValueThreshold: 0, RollsToScoreCount: 2},
		},
	}
	DuckPin = RuleConfig{
		Name:            "DUCKPIN",
		NumberOfFrames:  10,
		MaxRollsPerTurn: 3,
		Pins:            10,
		Parser:          ParserStandard,
		TriggeringRules: []TriggeringRule{
			{TriggeringRollCount: 1, TriggeringValueThreshold: 10, RollsToScoreCount: 3},
			{TriggeringRollCount: 2, TriggeringValueThreshold: 10, RollsToScoreCount: 3},
			{TriggeringRollCount: 3, TriggeringValueThreshold: 0, RollsToScoreCount: 3},
		},
	}
	Lowball = RuleConfig{
		Name:            "LOWBALL",
		NumberOfFrames:  10,
		MaxRollsPerTurn: 2,
		Pins:            10,
		Parser:          ParserLowball,
	}
)

// Catalog maps variant names to rule configs. Lookups ignore case.
type Catalog struct {
	mu       sync.RWMutex
	variants map[string]RuleConfig
}

// NewCatalog returns a catalog holding the built-in variants.
func NewCatalog() *Catalog {
	c := &Catalog{variants: make(map[string]RuleConfig)}
	for _, v := range []RuleConfig{TenPin, NoTap, DuckPin, Lowball} {
		c.variants[v.Name] = v
	}
	return c
}

// Register validates cfg and adds it, replacing any variant of the same name.
func (c *Catalog) Register(cfg RuleConfig) error {
	cfg.Name = strings.ToUpper(strings.TrimSpace(cfg.Name))
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variants[cfg.Name] = cfg
	return nil
}

func (c *Catalog) Lookup(name string) (RuleConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.variants[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return RuleConfig{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return cfg, nil
}

// Names lists registered variants in alphabetical order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.variants))
	for name := range c.variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
