package enums

// PrincipalKind distinguishes authenticated shoppers from guest checkouts.
type PrincipalKind string

const (
	PrincipalAuthenticated PrincipalKind = "authenticated"
	PrincipalGuest         PrincipalKind = "guest"
)

// String implements fmt.Stringer.
func (p PrincipalKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalKind.
func (p PrincipalKind) IsValid() bool {
	return p == PrincipalAuthenticated || p == PrincipalGuest
}
