package repository

import (
	"context"
	"database/sql"

	"github.com/tireweb/tire-shop-api/internal/model"
)

// ServiceRepo provides read access to the service catalog (services and
// their bookable options) and name lookups used when persisting bookings.
type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

// ServiceWithOptions is one active service plus its options, grouped for
// the public catalog endpoint.
type ServiceWithOptions struct {
	ID          uint64                `json:"id"`
	Name        string                `json:"name"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Options     []model.ServiceOption `json:"options"`
}

// ListActiveWithOptions returns every active service with its options,
// ordered by category then name.
func (r *ServiceRepo) ListActiveWithOptions(ctx context.Context) ([]ServiceWithOptions, error) {
	const q = `SELECT service_id, service_name, service_category, service_description
	           FROM services
	           WHERE is_active = 1
	           ORDER BY service_category, service_name`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	services := make([]ServiceWithOptions, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var s ServiceWithOptions
		var desc sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &desc); err != nil {
			return nil, err
		}
		s.Description = desc.String
		s.Options = []model.ServiceOption{}
		index[s.ID] = len(services)
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return services, nil
	}
	const optQ = `SELECT option_id, service_id, option_name, option_price
	              FROM service_options
	              ORDER BY service_id, option_id`
	orows, err := r.DB.QueryContext(ctx, optQ)
	if err != nil {
		return nil, err
	}
	defer orows.Close()
	for orows.Next() {
		var o model.ServiceOption
		if err := orows.Scan(&o.ID, &o.ServiceID, &o.Name, &o.Price); err != nil {
			return nil, err
		}
		if idx, ok := index[o.ServiceID]; ok {
			services[idx].Options = append(services[idx].Options, o)
		}
	}
	return services, orows.Err()
}

// ExistsTx reports whether a service id exists, within a transaction.
// Booking writes validate service selections against the catalog first.
func (r *ServiceRepo) ExistsTx(ctx context.Context, tx *sql.Tx, serviceID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM services WHERE service_id = ? LIMIT 1`, serviceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// OptionBelongsTx reports whether an option id belongs to the given
// service, within a transaction.
func (r *ServiceRepo) OptionBelongsTx(ctx context.Context, tx *sql.Tx, serviceID, optionID uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM service_options WHERE option_id = ? AND service_id = ? LIMIT 1`,
		optionID, serviceID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
