package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
// Clients depend on this exact spelling, including the trailing space.
const BearerPrefix = "Bearer "

// TokenEnvName lets CLI users pass a token without a flag.
const TokenEnvName = "BOOKMARKS_TOKEN"
