// Package acl is the anti-corruption layer between the remote quote source
// and the domain.
//
// The remote service speaks in "posts" (userId, id, title, body). Nothing
// outside this package sees that shape: adapters decode the external DTOs,
// translate them into domain.Quote values and map transport failures onto
// domain errors.
//
//	HTTP status / client error      domain error
//	404                             domain.ErrNotFound
//	409                             domain.ErrConflict
//	400, 422, other 4xx             domain.ErrValidation
//	401, 403, 429, 5xx              domain.ErrUnavailable
//	circuit open, retries exhausted domain.ErrUnavailable
package acl
