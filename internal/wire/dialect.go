package wire

import (
	"fmt"
	"strings"
)

// Dialect selects the wire protocol variant a dispatcher encodes for
type Dialect int

const (
	// Legacy is the JSON Wire Protocol spoken by older Selenium servers
	Legacy Dialect = iota
	// W3C is the standardized WebDriver protocol
	W3C
)

func (d Dialect) String() string {
	switch d {
	case Legacy:
		return "legacy"
	case W3C:
		return "w3c"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// ParseDialect maps a config value to a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "jsonwire", "oss":
		return Legacy, nil
	case "w3c":
		return W3C, nil
	default:
		return Legacy, fmt.Errorf("unknown dialect: %q (supported: legacy, w3c)", s)
	}
}
