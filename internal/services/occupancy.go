package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

// EventPublisher receives occupancy events after both writes succeeded.
type EventPublisher interface {
	Publish(ctx context.Context, evt types.OccupancyEvent) error
}

// OccupancyService keeps user.property_id and the property's occupant set in
// step. The two writes are independent: a failure after the first one is
// returned as is and leaves a one-sided reference for ConsistencyService to
// report.
type OccupancyService interface {
	MoveIn(ctx context.Context, userID, propertyID uuid.UUID) (*types.User, error)
	MoveOut(ctx context.Context, userID, propertyID uuid.UUID) (*types.User, error)
}

type occupancyService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	propertyRepo repos.PropertyRepo
	gate         AuthorizationGate
	events       EventPublisher
	metrics      *observability.Metrics
}

func NewOccupancyService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	propertyRepo repos.PropertyRepo,
	gate AuthorizationGate,
	events EventPublisher,
	metrics *observability.Metrics,
) OccupancyService {
	return &occupancyService{
		log:          log.With("service", "OccupancyService"),
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		gate:         gate,
		events:       events,
		metrics:      metrics,
	}
}

func (oc *occupancyService) MoveIn(ctx context.Context, userID, propertyID uuid.UUID) (*types.User, error) {
	rd, err := oc.gate.Authorize(ctx, OpMoveIn, userID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)

	exists, err := oc.propertyRepo.Exists(dbc, propertyID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if !exists {
		return nil, apierr.NotFound("property %s does not exist", propertyID)
	}
	user, err := oc.getUser(dbc, userID)
	if err != nil {
		return nil, err
	}

	if user.Occupying() && *user.PropertyID != propertyID {
		previous := *user.PropertyID
		if err := oc.propertyRepo.RemoveOccupant(dbc, previous, userID); err != nil {
			oc.metrics.IncOccupancyWrite("property", "error")
			oc.log.Error("move in: leave previous property failed", "error", err, "user_id", userID.String(), "property_id", previous.String())
			return nil, apierr.Internal(fmt.Errorf("remove from previous property: %w", err))
		}
		oc.metrics.IncOccupancyWrite("property", "ok")
	}

	if !user.Occupies(propertyID) {
		if err := oc.userRepo.SetProperty(dbc, userID, propertyID); err != nil {
			oc.metrics.IncOccupancyWrite("user", "error")
			oc.log.Error("move in: user write failed", "error", err, "user_id", userID.String(), "property_id", propertyID.String())
			return nil, apierr.Internal(fmt.Errorf("set user property: %w", err))
		}
		oc.metrics.IncOccupancyWrite("user", "ok")
	}

	if err := oc.propertyRepo.AddOccupant(dbc, propertyID, userID); err != nil {
		oc.metrics.IncOccupancyWrite("property", "error")
		oc.log.Error("move in: property write failed after user write", "error", err, "user_id", userID.String(), "property_id", propertyID.String())
		return nil, apierr.Internal(fmt.Errorf("add occupant: %w", err))
	}
	oc.metrics.IncOccupancyWrite("property", "ok")

	oc.publish(ctx, types.EventMovedIn, userID, propertyID, rd.UserID)
	oc.log.Info("tenant moved in", "user_id", userID.String(), "property_id", propertyID.String())
	return oc.getUser(dbc, userID)
}

func (oc *occupancyService) MoveOut(ctx context.Context, userID, propertyID uuid.UUID) (*types.User, error) {
	rd, err := oc.gate.Authorize(ctx, OpMoveOut, userID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)

	if _, err := oc.getUser(dbc, userID); err != nil {
		return nil, err
	}

	cleared, err := oc.userRepo.ClearPropertyIf(dbc, userID, propertyID)
	if err != nil {
		oc.metrics.IncOccupancyWrite("user", "error")
		oc.log.Error("move out: user write failed", "error", err, "user_id", userID.String(), "property_id", propertyID.String())
		return nil, apierr.Internal(fmt.Errorf("clear user property: %w", err))
	}
	if cleared {
		oc.metrics.IncOccupancyWrite("user", "ok")
	}

	if err := oc.propertyRepo.RemoveOccupant(dbc, propertyID, userID); err != nil {
		oc.metrics.IncOccupancyWrite("property", "error")
		oc.log.Error("move out: property write failed after user write", "error", err, "user_id", userID.String(), "property_id", propertyID.String())
		return nil, apierr.Internal(fmt.Errorf("remove occupant: %w", err))
	}
	oc.metrics.IncOccupancyWrite("property", "ok")

	oc.publish(ctx, types.EventMovedOut, userID, propertyID, rd.UserID)
	oc.log.Info("tenant moved out", "user_id", userID.String(), "property_id", propertyID.String())
	return oc.getUser(dbc, userID)
}

func (oc *occupancyService) getUser(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	found, err := oc.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("error fetching user: %w", err))
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.NotFound("user %s does not exist", userID)
	}
	stripSecrets(found[0])
	return found[0], nil
}

// publish is best effort; the move already happened.
func (oc *occupancyService) publish(ctx context.Context, typ types.OccupancyEventType, userID, propertyID, actorID uuid.UUID) {
	if oc.events == nil {
		return
	}
	evt := types.OccupancyEvent{
		Type:       typ,
		UserID:     userID,
		PropertyID: propertyID,
		ActorID:    actorID,
		At:         time.Now().UTC(),
	}
	if err := oc.events.Publish(ctx, evt); err != nil {
		oc.log.Warn("occupancy event publish failed", "error", err, "type", string(typ))
	}
}
