package natives

// NewDefaultRegistry builds the registry every Engine starts from: the
// fully-implemented math module, the vector normalize extern, and
// a stub registration for every native module this runtime treats as an
// external collaborator.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(mathModule())
	r.Register(vectorModule())
	for _, name := range stubModuleNames {
		r.Register(stubModule(name))
	}
	return r
}
