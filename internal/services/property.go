package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/OwaisIslam/living-real/internal/data/repos"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type PropertyInput struct {
	Name          string   `json:"name" validate:"required"`
	StreetAddress string   `json:"street_address" validate:"required"`
	Rent          string   `json:"rent" validate:"required,rent"`
	Description   string   `json:"description" validate:"max=4000"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,required"`
}

// PropertyPatch updates only the fields that are set. A nil Amenities leaves
// the list alone; an empty one clears it.
type PropertyPatch struct {
	Name          *string  `json:"name" validate:"omitnil,min=1"`
	StreetAddress *string  `json:"street_address" validate:"omitnil,min=1"`
	Rent          *string  `json:"rent" validate:"omitnil,rent"`
	Description   *string  `json:"description" validate:"omitnil,max=4000"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,required"`
}

type PropertyService interface {
	ListAll(ctx context.Context) ([]*types.Property, error)
	GetByID(ctx context.Context, propertyID uuid.UUID) (*types.Property, error)
	Create(ctx context.Context, in PropertyInput) (*types.Property, error)
	Update(ctx context.Context, propertyID uuid.UUID, patch PropertyPatch) (*types.Property, error)
	Delete(ctx context.Context, propertyID uuid.UUID) (*types.Property, error)
	AddOccupant(ctx context.Context, propertyID, tenantID uuid.UUID) (*types.Property, error)
}

type propertyService struct {
	log          *logger.Logger
	propertyRepo repos.PropertyRepo
	gate         AuthorizationGate
}

func NewPropertyService(log *logger.Logger, propertyRepo repos.PropertyRepo, gate AuthorizationGate) PropertyService {
	return &propertyService{
		log:          log.With("service", "PropertyService"),
		propertyRepo: propertyRepo,
		gate:         gate,
	}
}

func (ps *propertyService) ListAll(ctx context.Context) ([]*types.Property, error) {
	if _, err := ps.gate.Authorize(ctx, OpListProperties, uuid.Nil); err != nil {
		return nil, err
	}
	props, err := ps.propertyRepo.List(dbctx.Of(ctx))
	if err != nil {
		ps.log.Error("list properties failed", "error", err)
		return nil, apierr.Internal(err)
	}
	stripPropertySecrets(props...)
	return props, nil
}

func (ps *propertyService) GetByID(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	if _, err := ps.gate.Authorize(ctx, OpGetProperty, propertyID); err != nil {
		return nil, err
	}
	return ps.load(ctx, propertyID)
}

// load returns nil, nil when the property does not exist.
func (ps *propertyService) load(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	found, err := ps.propertyRepo.GetByIDs(dbctx.Of(ctx), []uuid.UUID{propertyID})
	if err != nil {
		ps.log.Error("get property failed", "error", err, "property_id", propertyID.String())
		return nil, apierr.Internal(fmt.Errorf("error fetching property: %w", err))
	}
	if len(found) == 0 || found[0] == nil {
		return nil, nil
	}
	stripPropertySecrets(found[0])
	return found[0], nil
}

func (ps *propertyService) Create(ctx context.Context, in PropertyInput) (*types.Property, error) {
	if _, err := ps.gate.Authorize(ctx, OpCreateProperty, uuid.Nil); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.StreetAddress = strings.TrimSpace(in.StreetAddress)
	in.Rent = strings.TrimSpace(in.Rent)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	amenities := datatypes.JSONSlice[string]{}
	for _, a := range in.Amenities {
		amenities = append(amenities, strings.TrimSpace(a))
	}
	created, err := ps.propertyRepo.Create(dbctx.Of(ctx), []*types.Property{{
		ID:            uuid.New(),
		Name:          in.Name,
		StreetAddress: in.StreetAddress,
		Rent:          in.Rent,
		Description:   in.Description,
		Amenities:     amenities,
	}})
	if err != nil {
		ps.log.Error("create property failed", "error", err)
		return nil, apierr.Internal(err)
	}
	ps.log.Info("property created", "property_id", created[0].ID.String())
	return ps.load(ctx, created[0].ID)
}

func (ps *propertyService) Update(ctx context.Context, propertyID uuid.UUID, patch PropertyPatch) (*types.Property, error) {
	if _, err := ps.gate.Authorize(ctx, OpUpdateProperty, propertyID); err != nil {
		return nil, err
	}
	patch.Name = trimmed(patch.Name)
	patch.StreetAddress = trimmed(patch.StreetAddress)
	patch.Rent = trimmed(patch.Rent)
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.StreetAddress != nil {
		fields["street_address"] = *patch.StreetAddress
	}
	if patch.Rent != nil {
		fields["rent"] = *patch.Rent
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Amenities != nil {
		amenities := datatypes.JSONSlice[string]{}
		for _, a := range patch.Amenities {
			amenities = append(amenities, strings.TrimSpace(a))
		}
		fields["amenities"] = amenities
	}

	ok, err := ps.propertyRepo.UpdateFields(dbctx.Of(ctx), propertyID, fields)
	if err != nil {
		ps.log.Error("update property failed", "error", err, "property_id", propertyID.String())
		return nil, apierr.Internal(err)
	}
	if !ok {
		return nil, apierr.NotFound("property %s does not exist", propertyID)
	}
	return ps.load(ctx, propertyID)
}

func (ps *propertyService) Delete(ctx context.Context, propertyID uuid.UUID) (*types.Property, error) {
	if _, err := ps.gate.Authorize(ctx, OpDeleteProperty, propertyID); err != nil {
		return nil, err
	}
	deleted, err := ps.propertyRepo.DeleteByID(dbctx.Of(ctx), propertyID)
	if err != nil {
		ps.log.Error("delete property failed", "error", err, "property_id", propertyID.String())
		return nil, apierr.Internal(err)
	}
	if deleted != nil {
		ps.log.Info("property deleted", "property_id", propertyID.String(), "occupants", len(deleted.Occupants))
		stripPropertySecrets(deleted)
	}
	return deleted, nil
}

// AddOccupant only touches the property's occupant set. The tenant's own
// reference is left as is; MoveIn is the two-sided operation.
func (ps *propertyService) AddOccupant(ctx context.Context, propertyID, tenantID uuid.UUID) (*types.Property, error) {
	if _, err := ps.gate.Authorize(ctx, OpAddOccupant, propertyID); err != nil {
		return nil, err
	}
	dbc := dbctx.Of(ctx)
	exists, err := ps.propertyRepo.Exists(dbc, propertyID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if !exists {
		return nil, apierr.NotFound("property %s does not exist", propertyID)
	}
	if err := ps.propertyRepo.AddOccupant(dbc, propertyID, tenantID); err != nil {
		ps.log.Error("add occupant failed", "error", err, "property_id", propertyID.String(), "tenant_id", tenantID.String())
		return nil, apierr.Internal(err)
	}
	return ps.load(ctx, propertyID)
}
