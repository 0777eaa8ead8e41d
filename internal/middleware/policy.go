package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/nexaboard/nexaboard-go/internal/httpjson"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/observability"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

type policyKind int

const (
	policyPublic policyKind = iota
	policyAuthenticated
	policyRoleIn
)

// Policy is the access rule attached to a route.
type Policy struct {
	kind  policyKind
	roles []model.Role
}

// Public allows every request.
func Public() Policy { return Policy{kind: policyPublic} }

// Authenticated allows any request with a principal.
func Authenticated() Policy { return Policy{kind: policyAuthenticated} }

// RoleIn allows principals holding one of roles.
func RoleIn(roles ...model.Role) Policy {
	return Policy{kind: policyRoleIn, roles: slices.Clone(roles)}
}

// Check returns nil, ErrUnauthenticated or ErrForbidden.
func (p Policy) Check(principal *model.User) error {
	if p.kind == policyPublic {
		return nil
	}
	if principal == nil {
		return ErrUnauthenticated
	}
	if p.kind == policyRoleIn && !slices.Contains(p.roles, principal.Role) {
		return ErrForbidden
	}
	return nil
}

func (p Policy) String() string {
	switch p.kind {
	case policyPublic:
		return "public"
	case policyAuthenticated:
		return "authenticated"
	default:
		names := make([]string, len(p.roles))
		for i, r := range p.roles {
			names[i] = string(r)
		}
		return "role in {" + strings.Join(names, ",") + "}"
	}
}

// Require enforces p on every request except CORS preflights. A principal
// lookup failure yields 500 on every non-public route. metrics may be nil.
func Require(p Policy, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if p.kind != policyPublic && PrincipalErrorFromContext(r.Context()) != nil {
				httpjson.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			principal, _ := PrincipalFromContext(r.Context())
			switch err := p.Check(principal); {
			case errors.Is(err, ErrUnauthenticated):
				metrics.RecordDenied("unauthenticated")
				httpjson.Error(w, http.StatusUnauthorized, err.Error())
			case errors.Is(err, ErrForbidden):
				metrics.RecordDenied("forbidden")
				httpjson.Error(w, http.StatusForbidden, err.Error())
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
