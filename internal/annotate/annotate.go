// Package annotate generates the decorative copy the UI shows: the post-login
// welcome line and per-file "analysis" blurbs.
//
// Nothing here touches stored data or business logic. The provider is fully
// optional: callers must treat every failure as recoverable and fall back to
// the fixed strings below, and the server runs happily with the Static
// provider when no API key is configured.
package annotate

import "context"

// Fixed fallback copy. Also what the Static provider always returns.
const (
	FallbackWelcome  = "Welcome to your secure cloud storage."
	FallbackAnalysis = "Encrypted cloud storage item."
)

// Provider produces short, human-facing text. Implementations may call an
// external service and may fail or hang; callers bound the wait with the
// context and recover locally with the Fallback strings.
type Provider interface {
	// WelcomeMessage returns a one-line greeting shown after authentication.
	WelcomeMessage(ctx context.Context) (string, error)

	// AnalyzeFile returns a brief description of what a file with the given
	// name and type might contain.
	AnalyzeFile(ctx context.Context, name, fileType string) (string, error)
}

// Static is the trivial default Provider: fixed strings, no network, no
// failure modes.
type Static struct{}

var _ Provider = Static{}

func (Static) WelcomeMessage(context.Context) (string, error) {
	return FallbackWelcome, nil
}

func (Static) AnalyzeFile(context.Context, string, string) (string, error) {
	return FallbackAnalysis, nil
}
