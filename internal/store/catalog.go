package store

import (
	"database/sql"
	"fmt"

	"github.com/tmackey/wortwatch/internal/model"
)

// CatalogStore serves the seeded reference tables: BJCP styles and yeast
// strains.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const styleCols = `id, code, name, category, og_min, og_max, fg_min, fg_max, abv_min, abv_max, ibu_min, ibu_max, srm_min, srm_max`

func scanStyle(scanner interface{ Scan(...any) error }) (*model.Style, error) {
	var st model.Style
	err := scanner.Scan(
		&st.ID, &st.Code, &st.Name, &st.Category,
		&st.OGMin, &st.OGMax, &st.FGMin, &st.FGMax, &st.ABVMin, &st.ABVMax,
		&st.IBUMin, &st.IBUMax, &st.SRMMin, &st.SRMMax,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *CatalogStore) ListStyles() ([]model.Style, error) {
	rows, err := s.db.Query(`SELECT ` + styleCols + ` FROM styles ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	defer rows.Close()

	var styles []model.Style
	for rows.Next() {
		st, err := scanStyle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan style: %w", err)
		}
		styles = append(styles, *st)
	}
	return styles, rows.Err()
}

func (s *CatalogStore) GetStyle(id int64) (*model.Style, error) {
	row := s.db.QueryRow(`SELECT `+styleCols+` FROM styles WHERE id = ?`, id)
	st, err := scanStyle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get style: %w", err)
	}
	return st, nil
}

const yeastCols = `id, name, producer, attenuation_min, attenuation_max, temp_min_c, temp_max_c, flocculation, created_at`

func scanYeast(scanner interface{ Scan(...any) error }) (*model.YeastStrain, error) {
	var y model.YeastStrain
	err := scanner.Scan(
		&y.ID, &y.Name, &y.Producer, &y.AttenuationMin, &y.AttenuationMax,
		&y.TempMinC, &y.TempMaxC, &y.Flocculation, &y.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &y, nil
}

func (s *CatalogStore) ListYeasts() ([]model.YeastStrain, error) {
	rows, err := s.db.Query(`SELECT ` + yeastCols + ` FROM yeast_strains ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list yeast strains: %w", err)
	}
	defer rows.Close()

	var yeasts []model.YeastStrain
	for rows.Next() {
		y, err := scanYeast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan yeast strain: %w", err)
		}
		yeasts = append(yeasts, *y)
	}
	return yeasts, rows.Err()
}

func (s *CatalogStore) GetYeast(id int64) (*model.YeastStrain, error) {
	row := s.db.QueryRow(`SELECT `+yeastCols+` FROM yeast_strains WHERE id = ?`, id)
	y, err := scanYeast(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get yeast strain: %w", err)
	}
	return y, nil
}

func (s *CatalogStore) CreateYeast(y *model.YeastStrain) (*model.YeastStrain, error) {
	result, err := s.db.Exec(
		`INSERT INTO yeast_strains (name, producer, attenuation_min, attenuation_max, temp_min_c, temp_max_c, flocculation)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		y.Name, y.Producer, y.AttenuationMin, y.AttenuationMax, y.TempMinC, y.TempMaxC, y.Flocculation,
	)
	if err != nil {
		return nil, fmt.Errorf("create yeast strain: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create yeast strain id: %w", err)
	}
	return s.GetYeast(id)
}
