package routing

import (
	"path"
	"strings"

	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
)

// Class is the coarse classification of a request path.
type Class string

const (
	ClassPublic     Class = "public"
	ClassProtected  Class = "protected"
	ClassOnboarding Class = "onboarding"
	ClassOther      Class = "other"
)

// Classifier answers pure, synchronous questions about paths and roles.
type Classifier struct {
	table Table
}

func NewClassifier(table Table) *Classifier {
	return &Classifier{table: table}
}

// Table returns the policy the classifier was built from.
func (c *Classifier) Table() Table {
	return c.table
}

// Classify maps a path onto its class. Onboarding takes precedence over protected.
func (c *Classifier) Classify(p string) Class {
	switch {
	case c.IsOnboardingRoute(p):
		return ClassOnboarding
	case c.IsProtectedRoute(p):
		return ClassProtected
	case c.IsPublicRoute(p):
		return ClassPublic
	default:
		return ClassOther
	}
}

func (c *Classifier) IsPublicRoute(p string) bool {
	p = normalize(p)
	for _, candidate := range c.table.PublicPaths {
		if p == candidate {
			return true
		}
	}
	for _, prefix := range c.table.PublicPrefixes {
		if hasSegmentPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (c *Classifier) IsProtectedRoute(p string) bool {
	return c.NamespaceOf(p) != ""
}

func (c *Classifier) IsOnboardingRoute(p string) bool {
	if c.table.OnboardingPath == "" {
		return false
	}
	return hasSegmentPrefix(normalize(p), c.table.OnboardingPath)
}

// NamespaceOf returns the role namespace prefix owning p, or "" when p is outside every namespace.
func (c *Classifier) NamespaceOf(p string) string {
	p = normalize(p)
	for _, ns := range c.table.Namespaces {
		if hasSegmentPrefix(p, ns) {
			return ns
		}
	}
	return ""
}

// HasRouteAccess reports whether role owns the namespace p lives in.
// Paths outside every namespace are accessible to any role.
func (c *Classifier) HasRouteAccess(p string, role enums.Role) bool {
	ns := c.NamespaceOf(p)
	if ns == "" {
		return true
	}
	own, ok := c.table.Namespaces[role]
	return ok && own == ns
}

// KnownRole reports whether role has a namespace in the table.
func (c *Classifier) KnownRole(role enums.Role) bool {
	_, ok := c.table.Namespaces[role]
	return ok
}

// RoleBasedRedirect returns the canonical landing path for role; unknown roles go to login.
func (c *Classifier) RoleBasedRedirect(role enums.Role) string {
	if target, ok := c.table.Redirects[role]; ok && target != "" {
		return target
	}
	if ns, ok := c.table.Namespaces[role]; ok && ns != "" {
		return ns
	}
	return c.table.LoginPath
}

func (c *Classifier) IsStaticAsset(p string) bool {
	p = normalize(p)
	for _, prefix := range c.table.StaticPrefixes {
		if hasSegmentPrefix(p, prefix) {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	for _, candidate := range c.table.StaticExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func (c *Classifier) LoginPath() string { return c.table.LoginPath }

func (c *Classifier) OnboardingPath() string { return c.table.OnboardingPath }

func (c *Classifier) ProviderDashboard() string { return c.table.ProviderDashboard }

// CleanPath resolves dot segments and repeated slashes so every rule sees the path the
// upstream will serve. A trailing slash is kept; the rules ignore it anyway.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	cleaned := path.Clean(p)
	if cleaned != "/" && strings.HasSuffix(p, "/") {
		cleaned += "/"
	}
	return cleaned
}

func normalize(p string) string {
	cleaned := CleanPath(p)
	if len(cleaned) > 1 {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}

func hasSegmentPrefix(p, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return false
	}
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}
