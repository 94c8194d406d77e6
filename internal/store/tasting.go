package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

type TastingStore struct {
	db *sql.DB
}

func NewTastingStore(db *sql.DB) *TastingStore {
	return &TastingStore{db: db}
}

const tastingCols = `id, batch_id, schema_version, appearance, aroma, flavor, mouthfeel, overall,
	bjcp_aroma, bjcp_appearance, bjcp_flavor, bjcp_mouthfeel, bjcp_overall,
	appearance_notes, aroma_notes, flavor_notes, mouthfeel_notes, overall_notes,
	serving_temp_c, glassware, style_conformant, tasted_at, created_at, updated_at`

func scanTasting(scanner interface{ Scan(...any) error }) (*model.TastingNote, error) {
	var n model.TastingNote
	var servingTemp sql.NullFloat64
	var conformant sql.NullInt64

	err := scanner.Scan(
		&n.ID, &n.BatchID, &n.SchemaVersion, &n.Appearance, &n.Aroma, &n.Flavor, &n.Mouthfeel, &n.Overall,
		&n.BJCPAroma, &n.BJCPAppearance, &n.BJCPFlavor, &n.BJCPMouthfeel, &n.BJCPOverall,
		&n.AppearanceNotes, &n.AromaNotes, &n.FlavorNotes, &n.MouthfeelNotes, &n.OverallNotes,
		&servingTemp, &n.Glassware, &conformant, &n.TastedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if servingTemp.Valid {
		n.ServingTempC = &servingTemp.Float64
	}
	if conformant.Valid {
		v := conformant.Int64 != 0
		n.StyleConformant = &v
	}
	return &n, nil
}

func (s *TastingStore) Create(n *model.TastingNote) (*model.TastingNote, error) {
	now := time.Now().UTC()
	tastedAt := n.TastedAt
	if tastedAt.IsZero() {
		tastedAt = now
	}
	var conformant any
	if n.StyleConformant != nil {
		conformant = boolToInt(*n.StyleConformant)
	}

	result, err := s.db.Exec(
		`INSERT INTO tasting_notes (batch_id, schema_version, appearance, aroma, flavor, mouthfeel, overall,
			bjcp_aroma, bjcp_appearance, bjcp_flavor, bjcp_mouthfeel, bjcp_overall,
			appearance_notes, aroma_notes, flavor_notes, mouthfeel_notes, overall_notes,
			serving_temp_c, glassware, style_conformant, tasted_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.BatchID, n.SchemaVersion, n.Appearance, n.Aroma, n.Flavor, n.Mouthfeel, n.Overall,
		n.BJCPAroma, n.BJCPAppearance, n.BJCPFlavor, n.BJCPMouthfeel, n.BJCPOverall,
		n.AppearanceNotes, n.AromaNotes, n.FlavorNotes, n.MouthfeelNotes, n.OverallNotes,
		n.ServingTempC, n.Glassware, conformant, tastedAt, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create tasting note: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create tasting note id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TastingStore) GetByID(id int64) (*model.TastingNote, error) {
	row := s.db.QueryRow(`SELECT `+tastingCols+` FROM tasting_notes WHERE id = ?`, id)
	n, err := scanTasting(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tasting note: %w", err)
	}
	return n, nil
}

func (s *TastingStore) ListByBatch(batchID int64) ([]model.TastingNote, error) {
	rows, err := s.db.Query(
		`SELECT `+tastingCols+` FROM tasting_notes WHERE batch_id = ? ORDER BY tasted_at DESC`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasting notes: %w", err)
	}
	defer rows.Close()

	var notes []model.TastingNote
	for rows.Next() {
		n, err := scanTasting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tasting note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (s *TastingStore) Update(id int64, n *model.TastingNote) (*model.TastingNote, error) {
	var conformant any
	if n.StyleConformant != nil {
		conformant = boolToInt(*n.StyleConformant)
	}
	result, err := s.db.Exec(
		`UPDATE tasting_notes SET schema_version = ?, appearance = ?, aroma = ?, flavor = ?, mouthfeel = ?, overall = ?,
			bjcp_aroma = ?, bjcp_appearance = ?, bjcp_flavor = ?, bjcp_mouthfeel = ?, bjcp_overall = ?,
			appearance_notes = ?, aroma_notes = ?, flavor_notes = ?, mouthfeel_notes = ?, overall_notes = ?,
			serving_temp_c = ?, glassware = ?, style_conformant = ?, tasted_at = ?, updated_at = ?
		 WHERE id = ?`,
		n.SchemaVersion, n.Appearance, n.Aroma, n.Flavor, n.Mouthfeel, n.Overall,
		n.BJCPAroma, n.BJCPAppearance, n.BJCPFlavor, n.BJCPMouthfeel, n.BJCPOverall,
		n.AppearanceNotes, n.AromaNotes, n.FlavorNotes, n.MouthfeelNotes, n.OverallNotes,
		n.ServingTempC, n.Glassware, conformant, n.TastedAt, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update tasting note: %w", err)
	}
	if rowCount, _ := result.RowsAffected(); rowCount == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

func (s *TastingStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasting_notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tasting note: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
