package model

import (
	"fmt"
	"strings"
)

// Kind is the closed set of concept kinds a tree node can have
type Kind int

const (
	KindGeneric Kind = iota
	KindClass
	KindInstance
	KindProperty
)

var kindNames = map[Kind]string{
	KindGeneric:  "generic",
	KindClass:    "class",
	KindInstance: "instance",
	KindProperty: "property",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a loosely spelled kind name onto the enum.
// Unknown or empty names fall back to KindGeneric.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class", "classes":
		return KindClass
	case "instance", "instances", "individual":
		return KindInstance
	case "property", "properties":
		return KindProperty
	default:
		return KindGeneric
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	return nil
}

// DefaultIcon returns the display tag used when the input does not set one
func (k Kind) DefaultIcon() string {
	switch k {
	case KindClass:
		return "folder"
	case KindInstance:
		return "entity"
	case KindProperty:
		return "tag"
	default:
		return "dot"
	}
}
