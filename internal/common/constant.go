// Package common contains shared constants and sentinel errors used across
// colorcheck components.
package common

// APITokenHeaderName is the primary header carrying the caller's token.
const APITokenHeaderName = "X-API-TOKEN"

// AuthorizationHeaderName is the fallback header; its value may be prefixed
// with TokenPrefix.
const AuthorizationHeaderName = "Authorization"

// TokenPrefix is the optional scheme in front of a token value.
const TokenPrefix = "Token "
