package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type InconsistencyKind string

const (
	// user.property_id set, property exists, but its occupant set lacks the user
	KindMissingOccupant InconsistencyKind = "missing_occupant"
	// user.property_id points at a property that no longer exists
	KindDanglingProperty InconsistencyKind = "dangling_property"
	// occupant row whose user points elsewhere or nowhere
	KindStaleOccupant InconsistencyKind = "stale_occupant"
	// occupant row whose user no longer exists
	KindDanglingUser InconsistencyKind = "dangling_user"
)

var AllInconsistencyKinds = []InconsistencyKind{
	KindMissingOccupant,
	KindDanglingProperty,
	KindStaleOccupant,
	KindDanglingUser,
}

type Inconsistency struct {
	Kind       InconsistencyKind `json:"kind"`
	UserID     uuid.UUID         `json:"user_id"`
	PropertyID uuid.UUID         `json:"property_id"`
}

type ConsistencyReport struct {
	UsersScanned     int             `json:"users_scanned"`
	OccupantsScanned int             `json:"occupants_scanned"`
	Issues           []Inconsistency `json:"issues"`
}

func (r *ConsistencyReport) Consistent() bool {
	return r != nil && len(r.Issues) == 0
}

func (r *ConsistencyReport) Count(kind InconsistencyKind) int {
	n := 0
	if r == nil {
		return 0
	}
	for _, is := range r.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

// ConsistencyService sweeps both sides of the occupancy relationship. It
// never writes.
type ConsistencyService interface {
	Check(ctx context.Context) (*ConsistencyReport, error)
}

type consistencyService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	propertyRepo repos.PropertyRepo
	gate         AuthorizationGate
	metrics      *observability.Metrics
}

func NewConsistencyService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	propertyRepo repos.PropertyRepo,
	gate AuthorizationGate,
	metrics *observability.Metrics,
) ConsistencyService {
	return &consistencyService{
		log:          log.With("service", "ConsistencyService"),
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		gate:         gate,
		metrics:      metrics,
	}
}

type occupantKey struct {
	propertyID uuid.UUID
	userID     uuid.UUID
}

func (cs *consistencyService) Check(ctx context.Context) (*ConsistencyReport, error) {
	if _, err := cs.gate.Authorize(ctx, OpCheckConsistency, uuid.Nil); err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)

	users, err := cs.userRepo.List(dbc, repos.UserFilter{})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list users: %w", err))
	}
	props, err := cs.propertyRepo.List(dbc)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list properties: %w", err))
	}
	occupants, err := cs.propertyRepo.ListOccupants(dbc)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list occupants: %w", err))
	}

	propertyExists := make(map[uuid.UUID]bool, len(props))
	for _, p := range props {
		propertyExists[p.ID] = true
	}
	userProperty := make(map[uuid.UUID]*uuid.UUID, len(users))
	for _, u := range users {
		userProperty[u.ID] = u.PropertyID
	}
	inSet := make(map[occupantKey]bool, len(occupants))
	for _, o := range occupants {
		inSet[occupantKey{propertyID: o.PropertyID, userID: o.UserID}] = true
	}

	report := &ConsistencyReport{
		UsersScanned:     len(users),
		OccupantsScanned: len(occupants),
		Issues:           []Inconsistency{},
	}
	for _, u := range users {
		if !u.Occupying() {
			continue
		}
		pid := *u.PropertyID
		switch {
		case !propertyExists[pid]:
			report.Issues = append(report.Issues, Inconsistency{Kind: KindDanglingProperty, UserID: u.ID, PropertyID: pid})
		case !inSet[occupantKey{propertyID: pid, userID: u.ID}]:
			report.Issues = append(report.Issues, Inconsistency{Kind: KindMissingOccupant, UserID: u.ID, PropertyID: pid})
		}
	}
	for _, o := range occupants {
		ref, known := userProperty[o.UserID]
		switch {
		case !known:
			report.Issues = append(report.Issues, Inconsistency{Kind: KindDanglingUser, UserID: o.UserID, PropertyID: o.PropertyID})
		case ref == nil || *ref != o.PropertyID:
			report.Issues = append(report.Issues, Inconsistency{Kind: KindStaleOccupant, UserID: o.UserID, PropertyID: o.PropertyID})
		}
	}

	for _, kind := range AllInconsistencyKinds {
		cs.metrics.SetInconsistencies(string(kind), report.Count(kind))
	}
	if len(report.Issues) > 0 {
		cs.log.Warn("occupancy inconsistencies found", "count", len(report.Issues))
	}
	return report, nil
}
