// Package module resolves ports across modules during bootstrap
package module

// Module is the slice of modkit.Module this package needs
// kept as a sibling so it does not import modkit
type Module interface {
	Ports() any
	Name() string
}
