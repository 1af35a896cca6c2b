package scene

import (
	"fmt"
	"math"

	"github.com/chazu/anchorscad/pkg/frame"
)

// shearTolerance bounds the cosine between frame axes before a frame counts
// as sheared.
const shearTolerance = 1e-6

// ValidationSeverity indicates whether a validation finding blocks output
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks output
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Path is the
// slash-joined chain of object names from the root ("?" for unnamed nodes).
type ValidationError struct {
	Path     string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking findings.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

func (r *ValidationResult) add(path string, sev ValidationSeverity, format string, args ...any) {
	e := ValidationError{Path: path, Message: fmt.Sprintf(format, args...), Severity: sev}
	if sev == SeverityWarning {
		r.Warnings = append(r.Warnings, e)
	} else {
		r.Errors = append(r.Errors, e)
	}
}

// Validate checks every object in s. It never mutates the scene.
func Validate(s *Scene) ValidationResult {
	var r ValidationResult
	seen := make(map[string]string) // name -> first path
	for _, root := range s.Roots {
		validateObject(&r, root, "", seen)
	}
	if len(s.Roots) == 0 {
		r.add("", SeverityWarning, "scene has no roots")
	}
	return r
}

func pathOf(parent, name string) string {
	if name == "" {
		name = "?"
	}
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func validateObject(r *ValidationResult, o *Object, parent string, seen map[string]string) {
	path := pathOf(parent, o.name)

	if o.name != "" {
		if first, dup := seen[o.name]; dup {
			r.add(path, SeverityWarning, "name %q already used by %s", o.name, first)
		} else {
			seen[o.name] = path
		}
	}

	validateFrame3D(r, path, "frame", o.ref)
	for _, name := range o.anchors.Names() {
		a := o.anchors[name]
		what := fmt.Sprintf("anchor %q", name)
		validateFrame3D(r, path, what, *a.RefSys())
		if _, err := a.RefSys().Inverse(); err != nil {
			r.add(path, SeverityWarning, "%s cannot be snapped: %v", what, err)
		}
		if a.Rotation.Any() || a.Translation.Any() || a.Scale.Any() || a.Shear.Any() {
			r.add(path, SeverityWarning, "%s has constraint flags; snapping always overrides every axis", what)
		}
	}

	switch s := o.Shape.(type) {
	case Cube:
		positive(r, path, "cube x", s.X)
		positive(r, path, "cube y", s.Y)
		positive(r, path, "cube z", s.Z)
	case Sphere:
		positive(r, path, "sphere radius", s.R)
	case Cylinder:
		positive(r, path, "cylinder height", s.H)
		if s.R1 < 0 || s.R2 < 0 || (s.R1 == 0 && s.R2 == 0) {
			r.add(path, SeverityError, "cylinder radii (%.4f, %.4f) must be non-negative and not both zero", s.R1, s.R2)
		}
	case Extrusion:
		positive(r, path, "extrusion height", s.Height)
		if s.Profile == nil {
			r.add(path, SeverityError, "extrusion has no profile")
		} else {
			validateObject2D(r, s.Profile, path)
		}
	case Composite:
		if len(s.Children) == 0 {
			r.add(path, SeverityWarning, "%s has no children", s.Op)
		}
		for _, c := range s.Children {
			validateObject(r, c, path, seen)
		}
	case nil:
		r.add(path, SeverityError, "object has no shape")
	}
}

func validateObject2D(r *ValidationResult, o *Object2D, parent string) {
	path := pathOf(parent, o.name)
	if !o.ref.IsFinite() {
		r.add(path, SeverityError, "profile frame is not finite")
	}
	switch s := o.Shape.(type) {
	case Square:
		positive(r, path, "square x", s.X)
		positive(r, path, "square y", s.Y)
	case Circle:
		positive(r, path, "circle radius", s.R)
	case Polygon:
		if len(s.Points) < 3 {
			r.add(path, SeverityError, "polygon has %d points, needs at least 3", len(s.Points))
		}
		for i, p := range s.Paths {
			for _, idx := range p {
				if idx < 0 || idx >= len(s.Points) {
					r.add(path, SeverityError, "polygon path %d references point %d of %d", i, idx, len(s.Points))
				}
			}
		}
	case Text:
		if s.Text == "" {
			r.add(path, SeverityWarning, "text is empty")
		}
		if s.Size <= 0 {
			r.add(path, SeverityError, "text size is %d, must be positive", s.Size)
		}
	case Composite2D:
		if len(s.Children) == 0 {
			r.add(path, SeverityWarning, "%s has no children", s.Op)
		}
		for _, c := range s.Children {
			validateObject2D(r, c, path)
		}
	case nil:
		r.add(path, SeverityError, "profile has no shape")
	}
}

func validateFrame3D(r *ValidationResult, path, what string, m frame.Matrix3D) {
	if !m.IsFinite() {
		r.add(path, SeverityError, "%s is not finite", what)
		return
	}
	if m.HasShear(shearTolerance) {
		r.add(path, SeverityWarning, "%s is sheared; get-rotate and get-scale are unreliable", what)
	}
}

func positive(r *ValidationResult, path, what string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		r.add(path, SeverityError, "%s is %.4f, must be positive", what, v)
	}
}
