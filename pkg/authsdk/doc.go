/*
Package authsdk defines the wire types shared between the doorman
authentication service and its clients.

# Token handling

Access tokens are short-lived JWTs returned in the response body of the
register, login and renew endpoints. Callers attach them to API requests as
a bearer header:

	Authorization: Bearer <access token>

Session tokens are never returned in a body. The service sets them as an
HttpOnly cookie scoped to the /v1/auth path, and the renew endpoint consumes
that cookie to mint a fresh access token. When session rotation is enabled
each renewal also replaces the cookie; reusing a superseded session token is
rejected and reported as possible credential theft.

# Errors

All error responses share one JSON shape:

	{"error": "<code>", "error_description": "<human readable>"}

The APIError type implements both the error interface and server-side
response writing, so the service and client code agree on the encoding.
*/
package authsdk
