package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"community-hub/internal/data/entity"
	"community-hub/pkg/database"
	"community-hub/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceWithOwner, error)
	FindAll(ctx context.Context, filter ServiceFilter) ([]*entity.ServiceWithOwner, error)
	CountAll(ctx context.Context, filter ServiceFilter) (int64, error)
	Update(ctx context.Context, service *entity.Service) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

const serviceSelect = `
	SELECT s.id, s.title, s.category, s.description, s.contact, s.price,
	       s.image_url, s.owner_id, s.status, s.created_at, s.updated_at,
	       u.name, u.email
	FROM services s
	LEFT JOIN users u ON u.id = s.owner_id
`

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	query := `
		INSERT INTO services (id, title, category, description, contact, price,
		                      image_url, owner_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		service.ID,
		service.Title,
		service.Category,
		service.Description,
		service.Contact,
		service.Price,
		service.ImageURL,
		service.OwnerID,
		service.Status,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service",
			zap.Error(err),
			zap.String("title", service.Title),
		)
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceWithOwner, error) {
	service, err := scanService(r.db.QueryRow(ctx, serviceSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find service %s: %w", id.String(), err)
	}

	return service, nil
}

// serviceWhere renders the filter conditions. Limit is not a condition.
func serviceWhere(filter ServiceFilter) (string, []interface{}) {
	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := []interface{}{}
	argCount := 1

	if filter.Status != nil {
		where.WriteString(fmt.Sprintf(" AND s.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.OwnerID != nil {
		where.WriteString(fmt.Sprintf(" AND s.owner_id = $%d", argCount))
		args = append(args, *filter.OwnerID)
	}

	return where.String(), args
}

func (r *serviceRepository) FindAll(ctx context.Context, filter ServiceFilter) ([]*entity.ServiceWithOwner, error) {
	where, args := serviceWhere(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(serviceSelect)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY s.created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)+1))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find services", zap.Error(err))
		return nil, fmt.Errorf("find services: %w", err)
	}
	defer rows.Close()

	services := []*entity.ServiceWithOwner{}
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}

	return services, nil
}

func (r *serviceRepository) CountAll(ctx context.Context, filter ServiceFilter) (int64, error) {
	where, args := serviceWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM services s`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count services", zap.Error(err))
		return 0, fmt.Errorf("count services: %w", err)
	}

	return total, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	query := `
		UPDATE services
		SET title = $2, category = $3, description = $4, contact = $5,
		    price = $6, image_url = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		service.ID,
		service.Title,
		service.Category,
		service.Description,
		service.Contact,
		service.Price,
		service.ImageURL,
		service.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update service",
			zap.Error(err),
			zap.String("service_id", service.ID.String()),
		)
		return fmt.Errorf("update service %s: %w", service.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", service.ID.String(), utils.ErrNotFound)
	}

	return nil
}

func (r *serviceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	query := `UPDATE services SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update service status",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return fmt.Errorf("update service status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", id.String(), utils.ErrNotFound)
	}

	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete service",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return fmt.Errorf("delete service %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %s: %w", id.String(), utils.ErrNotFound)
	}

	return nil
}

func scanService(row pgx.Row) (*entity.ServiceWithOwner, error) {
	var (
		service    entity.ServiceWithOwner
		ownerName  *string
		ownerEmail *string
	)

	err := row.Scan(
		&service.ID,
		&service.Title,
		&service.Category,
		&service.Description,
		&service.Contact,
		&service.Price,
		&service.ImageURL,
		&service.OwnerID,
		&service.Status,
		&service.CreatedAt,
		&service.UpdatedAt,
		&ownerName,
		&ownerEmail,
	)
	if err != nil {
		return nil, err
	}

	if service.OwnerID != nil && ownerName != nil {
		service.Owner = &entity.User{
			Base:  entity.Base{ID: *service.OwnerID},
			Name:  *ownerName,
			Email: derefString(ownerEmail),
		}
	}

	return &service, nil
}
