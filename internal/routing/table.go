package routing

import (
	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
)

// Table is the single declarative route policy consumed by the classifier.
type Table struct {
	// PublicPaths match exactly.
	PublicPaths []string
	// PublicPrefixes match on a path-segment boundary.
	PublicPrefixes []string
	// Namespaces maps each gated role to the path prefix it owns.
	Namespaces map[enums.Role]string
	// Redirects maps each gated role to its canonical landing path.
	Redirects map[enums.Role]string

	LoginPath         string
	OnboardingPath    string
	ProviderDashboard string
	// StaticPrefixes and StaticExtensions are skipped by the guard entirely.
	StaticPrefixes   []string
	StaticExtensions []string
}

// DefaultTable returns the marketplace route policy.
func DefaultTable() Table {
	return Table{
		PublicPaths: []string{
			"/",
			"/auth/login",
			"/auth/register",
			"/auth/forgot-password",
			"/auth/reset-password",
		},
		PublicPrefixes: []string{
			"/auth",
		},
		Namespaces: map[enums.Role]string{
			enums.RoleCustomer: "/customer",
			enums.RoleProvider: "/provider",
			enums.RoleAdmin:    "/admin",
			enums.RoleStaff:    "/staff",
		},
		Redirects: map[enums.Role]string{
			enums.RoleCustomer: "/customer",
			enums.RoleProvider: "/provider/dashboard",
			enums.RoleAdmin:    "/admin",
			enums.RoleStaff:    "/staff",
		},
		LoginPath:         "/auth/login",
		OnboardingPath:    "/provider/onboard",
		ProviderDashboard: "/provider/dashboard",
		StaticPrefixes: []string{
			"/_next/static",
			"/_next/image",
			"/static",
		},
		StaticExtensions: []string{
			".ico", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif",
			".css", ".js", ".map", ".woff", ".woff2", ".txt",
		},
	}
}
