package types

// Context keys used by the middleware chain to hand typed values to handlers.
const (
	ContextIdentityKey   = "identity"
	ContextMembershipKey = "membership"
	ContextBlinkKey      = "blink"
)

// Cookie names for the two token transports. Access and refresh tokens use
// distinct cookies so the long-lived credential is never sent where only the
// short-lived one is needed.
const (
	AccessTokenCookie  = "blink_access"
	RefreshTokenCookie = "blink_refresh"
)

// AccessTokenHeader carries the freshly minted access token on refresh
// responses for header-based clients.
const AccessTokenHeader = "X-Access-Token"
