package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/response"
)

const (
	capabilityApproveAll = "leave:approve_all"
	capabilityDeleteAll  = "leave:delete_all"
	capabilityManageAll  = "leave:manage_all"
)

// AuthRequired rejects requests without a verified access token carrying an
// employee and company identity.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing access token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Invalid token type")
				return
			}
			if employeeID, _ := claims["employee_id"].(string); employeeID == "" {
				response.Unauthorized(w, "Token carries no employee identity")
				return
			}
			if companyID, _ := claims["company_id"].(string); companyID == "" {
				response.Unauthorized(w, "Token carries no company identity")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorFromRequest builds the caller's identity and capability set from the
// verified token claims. Runs after AuthRequired, so the identity claims are
// known to be present.
func ActorFromRequest(r *http.Request) leave.Actor {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return leave.Actor{}
	}

	actor := leave.Actor{}
	actor.EmployeeID, _ = claims["employee_id"].(string)
	actor.CompanyID, _ = claims["company_id"].(string)

	if raw, ok := claims["capabilities"].([]interface{}); ok {
		for _, c := range raw {
			switch c {
			case capabilityApproveAll:
				actor.ApproveAll = true
			case capabilityDeleteAll:
				actor.DeleteAll = true
			case capabilityManageAll:
				actor.ManageAll = true
			}
		}
	}
	return actor
}

// RequireManage gates administrative endpoints on the manage capability.
// Services re-check authorization; this just fails fast at the edge.
func RequireManage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActorFromRequest(r).ManageAll {
			response.Forbidden(w, "Manage capability required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
