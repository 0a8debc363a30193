package report

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Rule derives one report feature from its inputs.
type Rule interface {
	Apply() (Feature, error)
}

// Compiler applies a set of rules and collects the resulting features by name.
type Compiler struct {
	rules    []Rule
	features map[string]Feature
	logger   *zap.Logger
}

// NewCompiler creates a compiler for rules.
func NewCompiler(rules ...Rule) *Compiler {
	return &Compiler{
		rules:    rules,
		features: make(map[string]Feature),
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (c *Compiler) SetLogger(l *zap.Logger) {
	c.logger = l
}

// ExtractFeatures applies every rule in order. A feature replaces any earlier
// feature with the same name. A rule error aborts extraction and no features
// are kept.
func (c *Compiler) ExtractFeatures() error {
	c.features = make(map[string]Feature)
	features := make(map[string]Feature, len(c.rules))
	for i, rule := range c.rules {
		f, err := rule.Apply()
		if err != nil {
			return fmt.Errorf("rule %d (%T): %w", i, rule, err)
		}
		if _, dup := features[f.Name()]; dup {
			c.logger.Warn("feature overwritten by later rule", zap.String("feature", f.Name()))
		}
		features[f.Name()] = f
		c.logger.Debug("extracted feature", zap.String("feature", f.Name()))
	}
	c.features = features
	return nil
}

// ApplyCaveats applies each caveat, in argument order, to every feature.
func (c *Compiler) ApplyCaveats(caveats ...Caveat) {
	for _, cv := range caveats {
		c.logger.Info("applying caveat",
			zap.String("type", string(cv.Type)),
			zap.String("call", string(cv.Call)),
			zap.String("action", string(cv.Action)))
		for _, f := range c.features {
			f.ApplyCaveat(cv)
		}
	}
}

// Features returns the extracted features keyed by name.
func (c *Compiler) Features() map[string]Feature {
	return c.features
}

// Names returns the feature names in sorted order.
func (c *Compiler) Names() []string {
	names := make([]string, 0, len(c.features))
	for name := range c.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToDict serializes every feature under its name.
func (c *Compiler) ToDict() map[string]any {
	out := make(map[string]any, len(c.features))
	for name, f := range c.features {
		out[name] = f.ToDict()
	}
	return out
}
