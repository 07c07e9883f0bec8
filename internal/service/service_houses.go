package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
)

// houseService implements [HouseService].
type houseService struct {
	houses store.HouseRepository
	clock  Clock
	logger *logger.Logger
}

// NewHouseService constructs a [HouseService].
func NewHouseService(houses store.HouseRepository, clock Clock, log *logger.Logger) HouseService {
	log.Debug().Msg("creating house service")
	return &houseService{
		houses: houses,
		clock:  clock,
		logger: log,
	}
}

// UK postcode, outward + inward code
var postcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}$`)

func validateHouseFields(name, postcode string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !postcodePattern.MatchString(postcode) {
		return fmt.Errorf("%w: invalid postcode %q", ErrValidation, postcode)
	}
	return nil
}

func (s *houseService) CreateHouse(ctx context.Context, principal models.Principal, house *models.House) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if err := validateHouseFields(house.Name, house.Postcode); err != nil {
		return err
	}
	if house.AddressLine == "" {
		return fmt.Errorf("%w: addressLine is required", ErrValidation)
	}

	house.CreatedAt = s.clock()
	return s.houses.SaveHouse(ctx, house)
}

func (s *houseService) GetHouse(ctx context.Context, id int64) (models.House, error) {
	return s.houses.GetHouse(ctx, id)
}

func (s *houseService) ListHouses(ctx context.Context) ([]models.House, error) {
	return s.houses.ListHouses(ctx)
}

func (s *houseService) UpdateHouse(ctx context.Context, principal models.Principal, id int64, patch models.HousePatch) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if patch.Name != nil && *patch.Name == "" {
		return fmt.Errorf("%w: name cannot be emptied", ErrValidation)
	}
	if patch.Postcode != nil && !postcodePattern.MatchString(*patch.Postcode) {
		return fmt.Errorf("%w: invalid postcode %q", ErrValidation, *patch.Postcode)
	}

	return s.houses.UpdateHouse(ctx, id, patch, s.clock())
}

func (s *houseService) DeleteHouse(ctx context.Context, principal models.Principal, id int64) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	return s.houses.DeleteHouse(ctx, id)
}
