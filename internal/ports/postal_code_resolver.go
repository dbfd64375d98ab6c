package ports

import "context"

// Contract for resolving postal codes from free-text addresses when they
// cannot be extracted locally.
type PostalCodeResolver interface {
	// Return address -> postal code for every address that could be resolved.
	// Unresolved addresses are simply absent from the result.
	ResolvePostalCodes(ctx context.Context, addresses []string) (map[string]string, error)
}
