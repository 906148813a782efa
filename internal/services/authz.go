package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type Operation string

const (
	OpRegister Operation = "register"
	OpLogin    Operation = "login"

	OpListUsers             Operation = "listUsers"
	OpGetUser               Operation = "getUser"
	OpListOwners            Operation = "listOwners"
	OpListTenants           Operation = "listTenants"
	OpListProperties        Operation = "listProperties"
	OpGetProperty           Operation = "getProperty"
	OpCreateCheckoutSession Operation = "createCheckoutSession"
	OpGetMe                 Operation = "getMe"

	OpUpdateProfile Operation = "updateProfile"

	OpDeleteUser       Operation = "deleteUser"
	OpCreateProperty   Operation = "createProperty"
	OpUpdateProperty   Operation = "updateProperty"
	OpDeleteProperty   Operation = "deleteProperty"
	OpAddOccupant      Operation = "addOccupant"
	OpMoveIn           Operation = "moveIn"
	OpMoveOut          Operation = "moveOut"
	OpCheckConsistency Operation = "checkConsistency"
)

type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessSelf
	AccessOwner
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessAuthenticated:
		return "authenticated"
	case AccessSelf:
		return "self"
	case AccessOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Policy is the whole access table. Operations missing from it are denied.
var Policy = map[Operation]Access{
	OpRegister: AccessPublic,
	OpLogin:    AccessPublic,

	OpListUsers:             AccessAuthenticated,
	OpGetUser:               AccessAuthenticated,
	OpListOwners:            AccessAuthenticated,
	OpListTenants:           AccessAuthenticated,
	OpListProperties:        AccessAuthenticated,
	OpGetProperty:           AccessAuthenticated,
	OpCreateCheckoutSession: AccessAuthenticated,
	OpGetMe:                 AccessAuthenticated,

	OpUpdateProfile: AccessSelf,

	OpDeleteUser:       AccessOwner,
	OpCreateProperty:   AccessOwner,
	OpUpdateProperty:   AccessOwner,
	OpDeleteProperty:   AccessOwner,
	OpAddOccupant:      AccessOwner,
	OpMoveIn:           AccessOwner,
	OpMoveOut:          AccessOwner,
	OpCheckConsistency: AccessOwner,
}

type AuthorizationGate interface {
	// Authorize checks the caller attached to ctx against op. target is only
	// read for self-scoped operations. The caller is returned (nil for
	// anonymous callers of public operations).
	Authorize(ctx context.Context, op Operation, target uuid.UUID) (*ctxutil.RequestData, error)
}

type authorizationGate struct {
	log     *logger.Logger
	metrics *observability.Metrics
	policy  map[Operation]Access
}

func NewAuthorizationGate(log *logger.Logger, metrics *observability.Metrics) AuthorizationGate {
	return &authorizationGate{
		log:     log.With("service", "AuthorizationGate"),
		metrics: metrics,
		policy:  Policy,
	}
}

func (g *authorizationGate) Authorize(ctx context.Context, op Operation, target uuid.UUID) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	access, known := g.policy[op]
	if !known {
		return nil, g.deny(op, rd, "unknown_operation")
	}
	if access == AccessPublic {
		return rd, nil
	}
	if rd == nil {
		return nil, g.deny(op, nil, "unauthenticated")
	}
	switch access {
	case AccessAuthenticated:
		return rd, nil
	case AccessSelf:
		if target != uuid.Nil && rd.UserID == target {
			return rd, nil
		}
		return nil, g.deny(op, rd, "not_self")
	case AccessOwner:
		if rd.IsOwner() {
			return rd, nil
		}
		return nil, g.deny(op, rd, "not_owner")
	}
	return nil, g.deny(op, rd, "unknown_access")
}

func (g *authorizationGate) deny(op Operation, rd *ctxutil.RequestData, reason string) error {
	g.metrics.IncAuthzDenial(string(op), reason)
	if rd == nil {
		g.log.Debug("authorization denied", "operation", op, "reason", reason)
		return apierr.Authentication(apierr.MsgNotLoggedIn)
	}
	g.log.Debug("authorization denied", "operation", op, "reason", reason, "user_id", rd.UserID.String(), "role", rd.Role)
	return apierr.Authorization()
}
