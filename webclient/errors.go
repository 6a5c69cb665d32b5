package webclient

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrAuthenticationMissing means no usable credential: either the session
// never had a token or the server rejected the one it carries. Screens
// short-circuit to this before touching the network.
var ErrAuthenticationMissing = errors.New("não autenticado: faça login novamente")

// AuthorizationDeniedError is the server's 403 (or the local rule table's
// pre-check) for an action the role may not perform. It is not retried.
type AuthorizationDeniedError struct {
	Message string
}

func (e *AuthorizationDeniedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Você não tem permissão para executar esta ação."
}

// ValidationError carries a 400 body: either a field-keyed map to surface
// next to the offending inputs, or a single form-level message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) == 0 {
		return "Dados inválidos."
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

// NetworkError is any other rejected request: transport failures and
// unexpected status codes. Recoverable by the user retrying.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
