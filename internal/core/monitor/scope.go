package monitor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrorKind tells where a counted error came from.
type ErrorKind uint8

const (
	KindClient ErrorKind = iota + 1
	KindNetwork
	// KindManual marks errors fed through Monitor.RecordError directly.
	KindManual
)

func (k ErrorKind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindNetwork:
		return "network"
	case KindManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Scope selects which kinds of errors a monitor counts. The zero value is
// ScopeBoth, which is also what an unset scope means.
type Scope uint8

const (
	ScopeBoth Scope = iota
	ScopeClient
	ScopeNetwork
)

// ParseScope accepts "client", "network", and "both" or "" for both.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return ScopeBoth, nil
	case "client":
		return ScopeClient, nil
	case "network":
		return ScopeNetwork, nil
	default:
		return ScopeBoth, fmt.Errorf("%w: %q", ErrInvalidScope, s)
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeBoth:
		return "both"
	case ScopeClient:
		return "client"
	case ScopeNetwork:
		return "network"
	default:
		return fmt.Sprintf("scope(%d)", uint8(s))
	}
}

// Includes reports whether errors of kind are counted under s.
func (s Scope) Includes(kind ErrorKind) bool {
	switch s {
	case ScopeBoth:
		return kind == KindClient || kind == KindNetwork
	case ScopeClient:
		return kind == KindClient
	case ScopeNetwork:
		return kind == KindNetwork
	default:
		return false
	}
}

// Set implements pflag.Value.
func (s *Scope) Set(value string) error {
	parsed, err := ParseScope(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Type implements pflag.Value.
func (s *Scope) Type() string { return "scope" }

func (s *Scope) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return s.Set(raw)
}

func (s Scope) MarshalYAML() (any, error) {
	if s == ScopeBoth {
		return nil, nil
	}
	return s.String(), nil
}
