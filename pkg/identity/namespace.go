// Package identity mints and checks the identities of designs and their children.
//
// There is no process-wide default homespace: every Namespace is an explicit
// value handed to the document that uses it.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

var displayIDPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Namespace is the configuration used to mint compliant identities:
// <homespace>/<displayId>[/<version>] for top-level objects and
// <parent persistent identity>/<displayId>[/<version>] for children.
type Namespace struct {
	Homespace string `json:"homespace" yaml:"homespace"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// New creates a Namespace. The homespace must be non-empty.
func New(homespace, version string) (Namespace, error) {
	homespace = strings.TrimRight(homespace, "/#")
	if homespace == "" {
		return Namespace{}, fmt.Errorf("homespace is required")
	}
	return Namespace{Homespace: homespace, Version: version}, nil
}

// MustNew is New for static configuration. It panics on error.
func MustNew(homespace, version string) Namespace {
	ns, err := New(homespace, version)
	if err != nil {
		panic(err)
	}
	return ns
}

// ValidateDisplayID checks that id can be used as a display id.
func ValidateDisplayID(id string) error {
	if !displayIDPattern.MatchString(id) {
		return fmt.Errorf("invalid display id %q: must match %s", id, displayIDPattern)
	}
	return nil
}

// Resolve returns the identity of a top-level object.
func (n Namespace) Resolve(displayID string) (string, error) {
	if err := ValidateDisplayID(displayID); err != nil {
		return "", err
	}
	return n.withVersion(n.Homespace + "/" + displayID), nil
}

// Child returns the identity of an object owned by parent.
func (n Namespace) Child(parent, displayID string) (string, error) {
	if err := ValidateDisplayID(displayID); err != nil {
		return "", err
	}
	return n.withVersion(n.Persistent(parent) + "/" + displayID), nil
}

// Persistent strips the version segment from an identity minted by n.
func (n Namespace) Persistent(identity string) string {
	if n.Version == "" {
		return identity
	}
	return strings.TrimSuffix(identity, "/"+n.Version)
}

// DisplayID extracts the display id from an identity minted by n.
func (n Namespace) DisplayID(identity string) string {
	p := n.Persistent(identity)
	if i := strings.LastIndexAny(p, "/#"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func (n Namespace) withVersion(persistent string) string {
	if n.Version == "" {
		return persistent
	}
	return persistent + "/" + n.Version
}
