// Package locator identifies UI elements on the target site.
package locator

import (
	"fmt"
	"strings"
)

// Strategy is how a locator value is interpreted.
type Strategy string

const (
	ID    Strategy = "id"
	XPath Strategy = "xpath"
	CSS   Strategy = "css"
)

// Locator identifies one UI element (or a set of them for FindAll).
type Locator struct {
	Strategy Strategy
	Value    string
}

// ByID locates an element by its id attribute.
func ByID(id string) Locator {
	return Locator{Strategy: ID, Value: id}
}

// ByXPath locates an element with an XPath expression.
func ByXPath(expr string) Locator {
	return Locator{Strategy: XPath, Value: expr}
}

// ByCSS locates an element with a CSS selector.
func ByCSS(selector string) Locator {
	return Locator{Strategy: CSS, Value: selector}
}

// Selector renders the locator in playwright selector syntax.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ID:
		// attribute form tolerates ids that are not valid CSS identifiers
		return fmt.Sprintf(`[id="%s"]`, strings.ReplaceAll(l.Value, `"`, `\"`))
	case XPath:
		return "xpath=" + l.Value
	default:
		return "css=" + l.Value
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("(%s, %s)", l.Strategy, l.Value)
}

// XPathLiteral quotes s as an XPath string literal.
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
