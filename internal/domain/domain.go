package domain

import "github.com/OwaisIslam/living-real/internal/domain/core"

type Role = core.Role

const (
	RoleOwner  = core.RoleOwner
	RoleTenant = core.RoleTenant
)

type User = core.User
type Property = core.Property
type PropertyOccupant = core.PropertyOccupant

type OccupancyEvent = core.OccupancyEvent
type OccupancyEventType = core.OccupancyEventType

const (
	EventMovedIn  = core.EventMovedIn
	EventMovedOut = core.EventMovedOut
)
