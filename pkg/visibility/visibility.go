package visibility

// Evaluator decides whether an attribute is visible from a rule string and
// the current record values.
type Evaluator interface {
	Eval(attributeID, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the top-level record,
// Row the current table row (nil outside tables) and Extras caller-supplied
// context such as the form mode or user roles.
type Context struct {
	Values map[string]any
	Row    map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(attributeID, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(attributeID, rule string, ctx Context) (bool, error) {
	return fn(attributeID, rule, ctx)
}
