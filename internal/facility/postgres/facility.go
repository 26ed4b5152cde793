package postgres

import (
	"context"
	"errors"

	facilityDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/facility"
	"github.com/barefootnomad/backend/internal/facility"
	"gorm.io/gorm"
)

type FacilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) facility.RepositoryAPI {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) Create(ctx context.Context, f *facilityDatamodel.Facility) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*facilityDatamodel.Facility, error) {
	var f facilityDatamodel.Facility
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, facility.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FacilityRepository) ListVisible(ctx context.Context, companyID *int64) ([]*facilityDatamodel.Facility, error) {
	query := r.db.WithContext(ctx)
	if companyID != nil {
		query = query.Where("company_id IS NULL OR company_id = ?", *companyID)
	} else {
		query = query.Where("company_id IS NULL")
	}

	var facilities []*facilityDatamodel.Facility
	if err := query.Order("name ASC, id ASC").Find(&facilities).Error; err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *FacilityRepository) Update(ctx context.Context, f *facilityDatamodel.Facility) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FacilityRepository) CreateRoom(ctx context.Context, room *facilityDatamodel.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *FacilityRepository) GetRoom(ctx context.Context, id int64) (*facilityDatamodel.Room, error) {
	var room facilityDatamodel.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, facility.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *FacilityRepository) ListRooms(ctx context.Context, facilityID int64) ([]*facilityDatamodel.Room, error) {
	var rooms []*facilityDatamodel.Room
	err := r.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("name ASC, id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *FacilityRepository) UpdateRoom(ctx context.Context, room *facilityDatamodel.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}
