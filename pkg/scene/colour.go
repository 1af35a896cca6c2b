package scene

import (
	"fmt"
	"strconv"
)

type colourKind int

const (
	colourUnset colourKind = iota
	colourNamed
	colourRGBA
)

// Colour is unset, a named colour or an RGBA quadruple in [0, 1].
type Colour struct {
	kind colourKind
	name string
	rgba [4]float64
}

// ColourNamed returns a colour referenced by name, e.g. "red".
func ColourNamed(name string) Colour {
	return Colour{kind: colourNamed, name: name}
}

// ColourRGB returns an opaque colour.
func ColourRGB(r, g, b float64) Colour {
	return ColourRGBA(r, g, b, 1)
}

func ColourRGBA(r, g, b, a float64) Colour {
	return Colour{kind: colourRGBA, rgba: [4]float64{r, g, b, a}}
}

// IsSet reports whether c carries a colour.
func (c Colour) IsSet() bool { return c.kind != colourUnset }

// Named returns the colour name and whether c is a named colour.
func (c Colour) Named() (string, bool) { return c.name, c.kind == colourNamed }

// RGBA returns the components and whether c is numeric.
func (c Colour) RGBA() ([4]float64, bool) { return c.rgba, c.kind == colourRGBA }

func (c Colour) String() string {
	switch c.kind {
	case colourNamed:
		return strconv.Quote(c.name)
	case colourRGBA:
		return fmt.Sprintf("[%g, %g, %g, %g]", c.rgba[0], c.rgba[1], c.rgba[2], c.rgba[3])
	default:
		return "unset"
	}
}

// Modifier is an OpenSCAD debug modifier applied to a single node.
type Modifier int

const (
	ModNone       Modifier = iota
	ModDebug               // highlighted in preview
	ModBackground          // transparent, excluded from render
	ModRoot                // render only this subtree
	ModDisable             // ignore this subtree
)

// Prefix returns the modifier character written before the shape.
func (m Modifier) Prefix() string {
	switch m {
	case ModDebug:
		return "#"
	case ModBackground:
		return "%"
	case ModRoot:
		return "!"
	case ModDisable:
		return "*"
	default:
		return ""
	}
}

// Marker selects which helper geometry is drawn alongside an object.
type Marker int

const (
	MarkNone Marker = iota
	MarkOrigin
	MarkAnchors // anchors and origin
)
