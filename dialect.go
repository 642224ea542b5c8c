package novelconv

// Reader supplies the rules that parse a source dialect.
// Every call returns freshly built registries: parsing consumes one-shot
// rules, so registries must not be reused across conversions.
type Reader interface {
	Name() string
	Preprocessors() *Registry[TextRule]
	InlineRules() *Registry[TextRule]
	BlockRules() *Registry[BlockRule]
}

// Writer supplies the renderer and postprocessing passes of a target dialect.
type Writer interface {
	Name() string
	Renderer() Renderer
	Postprocessors() *Registry[TextRule]
}
