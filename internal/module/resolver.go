package module

// Resolver locates project-specific modules that live outside the built-in
// registry. root is the project directory; identifier is a dotted name whose
// final component names the implementation the resolved code must expose.
//
// The interface is deliberately small so the project layer does not depend
// on how project-specific code is packaged or executed.
type Resolver interface {
	Resolve(root, identifier string) (Module, error)
}
