package core

import (
	"time"

	"github.com/google/uuid"
)

type OccupancyEventType string

const (
	EventMovedIn  OccupancyEventType = "occupancy.moved_in"
	EventMovedOut OccupancyEventType = "occupancy.moved_out"
)

// OccupancyEvent is published after a move-in or move-out completed.
type OccupancyEvent struct {
	Type       OccupancyEventType `json:"type"`
	UserID     uuid.UUID          `json:"user_id"`
	PropertyID uuid.UUID          `json:"property_id"`
	ActorID    uuid.UUID          `json:"actor_id"`
	At         time.Time          `json:"at"`
}
