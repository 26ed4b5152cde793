package postgres

import (
	"context"
	"errors"

	requestDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/request"
	"github.com/barefootnomad/backend/internal/request"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.RepositoryAPI {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *requestDatamodel.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*requestDatamodel.Request, error) {
	var req requestDatamodel.Request
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64, status string) ([]*requestDatamodel.Request, error) {
	query := r.db.WithContext(ctx).Where("requester_id = ?", requesterID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.find(query)
}

func (r *RequestRepository) ListByManager(ctx context.Context, managerID int64) ([]*requestDatamodel.Request, error) {
	return r.find(r.db.WithContext(ctx).Where("manager_id = ?", managerID))
}

func (r *RequestRepository) ListAll(ctx context.Context) ([]*requestDatamodel.Request, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&requestDatamodel.Request{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RequestRepository) find(query *gorm.DB) ([]*requestDatamodel.Request, error) {
	var requests []*requestDatamodel.Request
	if err := query.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
