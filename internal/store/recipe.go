package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

const recipeCols = `id, name, author, style, style_id, batch_size_l, boil_size_l, efficiency_pct,
	boil_time_min, mash_time_min, yeast_strain_id, yeast_name, attenuation_pct,
	target_og, target_fg, target_abv, target_ibu, target_srm, created_at, updated_at`

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var styleID, yeastID sql.NullInt64
	err := scanner.Scan(
		&r.ID, &r.Name, &r.Author, &r.Style, &styleID, &r.BatchSizeL, &r.BoilSizeL, &r.EfficiencyPct,
		&r.BoilTimeMin, &r.MashTimeMin, &yeastID, &r.YeastName, &r.AttenuationPct,
		&r.TargetOG, &r.TargetFG, &r.TargetABV, &r.TargetIBU, &r.TargetSRM, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if styleID.Valid {
		r.StyleID = &styleID.Int64
	}
	if yeastID.Valid {
		r.YeastStrainID = &yeastID.Int64
	}
	return &r, nil
}

// List returns all recipes without their ingredient collections.
func (s *RecipeStore) List() ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT ` + recipeCols + ` FROM recipes ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// GetByID returns a recipe with its fermentables and hops loaded, or nil
// when no recipe exists with that ID.
func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if r.Fermentables, err = s.listFermentables(id); err != nil {
		return nil, err
	}
	if r.Hops, err = s.listHops(id); err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a recipe with its ingredient collections in one
// transaction and returns the stored result.
func (s *RecipeStore) Create(r *model.Recipe) (*model.Recipe, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create recipe: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.Exec(
		`INSERT INTO recipes (name, author, style, style_id, batch_size_l, boil_size_l, efficiency_pct,
			boil_time_min, mash_time_min, yeast_strain_id, yeast_name, attenuation_pct,
			target_og, target_fg, target_abv, target_ibu, target_srm, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Author, r.Style, r.StyleID, r.BatchSizeL, r.BoilSizeL, r.EfficiencyPct,
		r.BoilTimeMin, r.MashTimeMin, r.YeastStrainID, r.YeastName, r.AttenuationPct,
		r.TargetOG, r.TargetFG, r.TargetABV, r.TargetIBU, r.TargetSRM, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create recipe id: %w", err)
	}

	if err := insertIngredients(tx, id, r.Fermentables, r.Hops); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create recipe: %w", err)
	}
	return s.GetByID(id)
}

// Update replaces a recipe and its ingredient collections. Child rows are
// rewritten wholesale; their IDs are not stable across updates.
func (s *RecipeStore) Update(id int64, r *model.Recipe) (*model.Recipe, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update recipe: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE recipes SET name = ?, author = ?, style = ?, style_id = ?, batch_size_l = ?, boil_size_l = ?,
			efficiency_pct = ?, boil_time_min = ?, mash_time_min = ?, yeast_strain_id = ?, yeast_name = ?,
			attenuation_pct = ?, target_og = ?, target_fg = ?, target_abv = ?, target_ibu = ?, target_srm = ?,
			updated_at = ?
		 WHERE id = ?`,
		r.Name, r.Author, r.Style, r.StyleID, r.BatchSizeL, r.BoilSizeL,
		r.EfficiencyPct, r.BoilTimeMin, r.MashTimeMin, r.YeastStrainID, r.YeastName,
		r.AttenuationPct, r.TargetOG, r.TargetFG, r.TargetABV, r.TargetIBU, r.TargetSRM,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(`DELETE FROM fermentables WHERE recipe_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear fermentables: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM hops WHERE recipe_id = ?`, id); err != nil {
		return nil, fmt.Errorf("clear hops: %w", err)
	}
	if err := insertIngredients(tx, id, r.Fermentables, r.Hops); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update recipe: %w", err)
	}
	return s.GetByID(id)
}

func (s *RecipeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

func insertIngredients(tx *sql.Tx, recipeID int64, fermentables []model.Fermentable, hops []model.Hop) error {
	for i, f := range fermentables {
		_, err := tx.Exec(
			`INSERT INTO fermentables (recipe_id, name, type, amount_kg, potential_sg, color_srm, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			recipeID, f.Name, f.Type, f.AmountKg, f.PotentialSG, f.ColorSRM, i,
		)
		if err != nil {
			return fmt.Errorf("insert fermentable: %w", err)
		}
	}
	for i, h := range hops {
		_, err := tx.Exec(
			`INSERT INTO hops (recipe_id, name, origin, alpha_acid_pct, amount_grams, use, time_minutes, form, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			recipeID, h.Name, h.Origin, h.AlphaAcidPct, h.AmountGrams, h.Use, h.TimeMinutes, h.Form, i,
		)
		if err != nil {
			return fmt.Errorf("insert hop: %w", err)
		}
	}
	return nil
}

func (s *RecipeStore) listFermentables(recipeID int64) ([]model.Fermentable, error) {
	rows, err := s.db.Query(
		`SELECT id, recipe_id, name, type, amount_kg, potential_sg, color_srm, sort_order
		 FROM fermentables WHERE recipe_id = ? ORDER BY sort_order ASC`, recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list fermentables: %w", err)
	}
	defer rows.Close()

	var fermentables []model.Fermentable
	for rows.Next() {
		var f model.Fermentable
		if err := rows.Scan(&f.ID, &f.RecipeID, &f.Name, &f.Type, &f.AmountKg, &f.PotentialSG, &f.ColorSRM, &f.SortOrder); err != nil {
			return nil, fmt.Errorf("scan fermentable: %w", err)
		}
		fermentables = append(fermentables, f)
	}
	return fermentables, rows.Err()
}

func (s *RecipeStore) listHops(recipeID int64) ([]model.Hop, error) {
	rows, err := s.db.Query(
		`SELECT id, recipe_id, name, origin, alpha_acid_pct, amount_grams, use, time_minutes, form, sort_order
		 FROM hops WHERE recipe_id = ? ORDER BY sort_order ASC`, recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list hops: %w", err)
	}
	defer rows.Close()

	var hops []model.Hop
	for rows.Next() {
		var h model.Hop
		if err := rows.Scan(&h.ID, &h.RecipeID, &h.Name, &h.Origin, &h.AlphaAcidPct, &h.AmountGrams, &h.Use, &h.TimeMinutes, &h.Form, &h.SortOrder); err != nil {
			return nil, fmt.Errorf("scan hop: %w", err)
		}
		hops = append(hops, h)
	}
	return hops, rows.Err()
}
