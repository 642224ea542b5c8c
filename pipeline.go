package novelconv

// TextRule transforms a whole text value into another.
// Rules must be total: any input string yields an output string.
type TextRule interface {
	Apply(text string) string
}

// TextRuleFunc adapts an ordinary function to TextRule.
type TextRuleFunc func(text string) string

// Apply calls f(text).
func (f TextRuleFunc) Apply(text string) string {
	return f(text)
}

// Processor folds the rules of one registry over a text value,
// feeding each rule's output into the next in priority order.
type Processor struct {
	reg *Registry[TextRule]
}

// NewProcessor binds a Processor to reg. A nil reg behaves as an empty registry.
func NewProcessor(reg *Registry[TextRule]) *Processor {
	if reg == nil {
		reg = NewRegistry[TextRule]()
	}
	return &Processor{reg: reg}
}

// Registry returns the bound registry.
func (p *Processor) Registry() *Registry[TextRule] {
	return p.reg
}

// Run applies every rule to input and returns the final value.
func (p *Processor) Run(input string) string {
	for rule := range p.reg.All() {
		input = rule.Apply(input)
	}
	return input
}
