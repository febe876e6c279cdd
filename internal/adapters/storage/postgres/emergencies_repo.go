package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"ambulance-dispatch/internal/domain/emergencies"
)

type EmergenciesRepo struct {
	db *sql.DB
}

func NewEmergenciesRepo(db *sql.DB) *EmergenciesRepo {
	return &EmergenciesRepo{db: db}
}

const emergencyColumns = `
	id, folio,
	service_type, description,
	patient_name, patient_age, patient_phone,
	address, lat, lng,
	priority, assigned_unit_id,
	status, status_timestamps,
	unit_note, created_at
`

func (r *EmergenciesRepo) Create(ctx context.Context, e emergencies.Emergency) error {
	ts, err := json.Marshal(e.StatusTimestamps)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO emergencies (`+emergencyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		e.ID,
		e.Folio,
		string(e.ServiceType),
		e.Description,
		e.Patient.Name,
		e.Patient.Age,
		e.Patient.Phone,
		e.Address,
		e.Lat,
		e.Lng,
		string(e.Priority),
		e.AssignedUnitID,
		string(e.Status),
		ts,
		e.UnitNote,
		e.CreatedAt,
	)
	return err
}

func (r *EmergenciesRepo) GetByID(ctx context.Context, id string) (emergencies.Emergency, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return emergencies.Emergency{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+emergencyColumns+`
		FROM emergencies
		WHERE id = $1
	`, id)

	return scanEmergency(row)
}

func (r *EmergenciesRepo) ListActive(ctx context.Context, assignedUnitID string) ([]emergencies.Emergency, error) {
	q := `
		SELECT ` + emergencyColumns + `
		FROM emergencies
		WHERE status <> 'finalized'
	`
	args := []any{}

	if assignedUnitID != "" {
		q += " AND assigned_unit_id = $1"
		args = append(args, assignedUnitID)
	}
	q += " ORDER BY created_at DESC"

	return r.list(ctx, q, args...)
}

func (r *EmergenciesRepo) ListRecent(ctx context.Context, limit int) ([]emergencies.Emergency, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, `
		SELECT `+emergencyColumns+`
		FROM emergencies
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

// SetStatus sobreescribe el estado y agrega el timestamp SOLO si la
// llave no existe todavía. La condición va dentro del UPDATE para que
// dos transiciones concurrentes al mismo estado no pisen la primera
// hora registrada.
func (r *EmergenciesRepo) SetStatus(ctx context.Context, id string, st emergencies.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE emergencies
		SET status = $2,
		    status_timestamps = CASE
		        WHEN status_timestamps ? $2 THEN status_timestamps
		        ELSE status_timestamps || jsonb_build_object($2::text, to_jsonb($3::timestamptz))
		    END
		WHERE id = $1
	`, id, string(st), at)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EmergenciesRepo) SetUnitNote(ctx context.Context, id, note string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE emergencies
		SET unit_note = $2
		WHERE id = $1
	`, id, note)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EmergenciesRepo) list(ctx context.Context, query string, args ...any) ([]emergencies.Emergency, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]emergencies.Emergency, 0)
	for rows.Next() {
		e, err := scanEmergency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmergency(row rowScanner) (emergencies.Emergency, error) {
	var (
		e         emergencies.Emergency
		svcType   string
		age       sql.NullInt64
		priority  string
		status    string
		tsRaw     []byte
	)

	if err := row.Scan(
		&e.ID,
		&e.Folio,
		&svcType,
		&e.Description,
		&e.Patient.Name,
		&age,
		&e.Patient.Phone,
		&e.Address,
		&e.Lat,
		&e.Lng,
		&priority,
		&e.AssignedUnitID,
		&status,
		&tsRaw,
		&e.UnitNote,
		&e.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return emergencies.Emergency{}, ErrNotFound
		}
		return emergencies.Emergency{}, err
	}

	if age.Valid {
		v := int(age.Int64)
		e.Patient.Age = &v
	}

	e.ServiceType = emergencies.ServiceType(svcType)
	e.Priority = emergencies.Priority(priority)
	e.Status = emergencies.Status(status)

	e.StatusTimestamps = make(map[emergencies.Status]time.Time)
	if len(tsRaw) > 0 {
		if err := json.Unmarshal(tsRaw, &e.StatusTimestamps); err != nil {
			return emergencies.Emergency{}, err
		}
	}

	return e, nil
}
