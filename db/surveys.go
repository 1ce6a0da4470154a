// ABOUTME: Survey record database operations
// ABOUTME: Handles draft progress writes, completion, cancellation, and resumption
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/grupoethernos/campo/models"
)

func CreatePesquisa(db *sql.DB, p *models.Pesquisa) error {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO pesquisas (id, user_id, user_name, timestamp_start, lat_start, lng_start, data, status, last_step, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.UserName, p.TimestampStart, p.LocationStart.Lat, p.LocationStart.Lng, string(data), p.Status, p.LastStep, p.Synced)

	return err
}

func GetPesquisa(db *sql.DB, id string) (*models.Pesquisa, error) {
	p, err := scanPesquisaRow(db.QueryRow(selectPesquisa+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UpdatePesquisaProgress persists the draft answers and last reached step
// of an in-progress record after every mutation.
func UpdatePesquisaProgress(db *sql.DB, id string, lastStep int, f models.FormData) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	_, err = db.Exec(`
		UPDATE pesquisas
		SET data = ?, last_step = ?
		WHERE id = ? AND status = ?
	`, string(data), lastStep, id, models.SurveyEmAndamento)

	return err
}

// CompletePesquisa finishes a record atomically: final answers, end
// timestamp, end location, and synced flag in one statement. Completed
// records are never mutated again except by the sync flag.
func CompletePesquisa(db *sql.DB, p *models.Pesquisa) error {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	var latEnd, lngEnd any
	if p.LocationEnd != nil {
		latEnd, lngEnd = p.LocationEnd.Lat, p.LocationEnd.Lng
	}

	res, err := db.Exec(`
		UPDATE pesquisas
		SET data = ?, status = ?, timestamp_end = ?, lat_end = ?, lng_end = ?, last_step = ?, synced = ?
		WHERE id = ? AND status = ?
	`, string(data), models.SurveyConcluida, p.TimestampEnd, latEnd, lngEnd, p.LastStep, p.Synced, p.ID, models.SurveyEmAndamento)
	if err != nil {
		return fmt.Errorf("failed to complete survey: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("survey %s is not in progress", p.ID)
	}
	return nil
}

// DeletePesquisa removes a record entirely. Used when the respondent
// declines at the approach step, so no orphaned draft survives.
func DeletePesquisa(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM pesquisas WHERE id = ?`, id)
	return err
}

// FindPesquisaEmAndamento returns the consultant's in-progress record, or
// nil when none exists. At most one should exist at a time.
func FindPesquisaEmAndamento(db *sql.DB, userID string) (*models.Pesquisa, error) {
	p, err := scanPesquisaRow(db.QueryRow(selectPesquisa+`
		WHERE user_id = ? AND status = ?
		ORDER BY timestamp_start DESC
		LIMIT 1
	`, userID, models.SurveyEmAndamento))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// FindPesquisas lists records, newest first. userID narrows to one
// consultant; query matches the respondent name or the record id.
func FindPesquisas(db *sql.DB, query, userID string, limit int) ([]models.Pesquisa, error) {
	if limit <= 0 {
		limit = 50
	}

	where := []string{"1=1"}
	args := []any{}
	if userID != "" {
		where = append(where, "user_id = ?")
		args = append(args, userID)
	}
	args = append(args, limit)

	rows, err := db.Query(selectPesquisa+`
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY timestamp_start DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pesquisas []models.Pesquisa
	for rows.Next() {
		p, err := scanPesquisaRows(rows)
		if err != nil {
			return nil, err
		}
		if query != "" && !matchesPesquisa(p, query) {
			continue
		}
		pesquisas = append(pesquisas, *p)
	}
	return pesquisas, rows.Err()
}

// CountInteressados counts completed surveys where the respondent agreed
// to hear the plan explanation. Dashboard stat only.
func CountInteressados(db *sql.DB) (int, error) {
	rows, err := db.Query(selectPesquisa + ` WHERE status = 'concluida'`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		p, err := scanPesquisaRows(rows)
		if err != nil {
			return 0, err
		}
		if p.Data.PossoExplicar == models.Sim {
			count++
		}
	}
	return count, rows.Err()
}

func matchesPesquisa(p *models.Pesquisa, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Data.Nome), q) ||
		strings.Contains(strings.ToLower(p.ID), q)
}

const selectPesquisa = `
	SELECT id, user_id, user_name, timestamp_start, timestamp_end, lat_start, lng_start, lat_end, lng_end, data, status, last_step, synced
	FROM pesquisas`

func scanPesquisaRow(row *sql.Row) (*models.Pesquisa, error) {
	return scanPesquisaRows(row)
}

func scanPesquisaRows(row rowScanner) (*models.Pesquisa, error) {
	var p models.Pesquisa
	var tsEnd sql.NullTime
	var latEnd, lngEnd sql.NullFloat64
	var data string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.UserName,
		&p.TimestampStart,
		&tsEnd,
		&p.LocationStart.Lat,
		&p.LocationStart.Lng,
		&latEnd,
		&lngEnd,
		&data,
		&p.Status,
		&p.LastStep,
		&p.Synced,
	)
	if err != nil {
		return nil, err
	}

	if tsEnd.Valid {
		p.TimestampEnd = &tsEnd.Time
	}
	if latEnd.Valid && lngEnd.Valid {
		p.LocationEnd = &models.LatLng{Lat: latEnd.Float64, Lng: lngEnd.Float64}
	}

	// A corrupt answers blob degrades to an empty draft instead of
	// failing the whole load.
	if err := json.Unmarshal([]byte(data), &p.Data); err != nil {
		log.Printf("warning: survey %s has unreadable answers, starting empty: %v", p.ID, err)
		p.Data = models.FormData{}
	}

	return &p, nil
}
