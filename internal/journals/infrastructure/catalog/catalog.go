// Package catalog imports categories, task templates and assignments from a
// YAML document. Local installs use it in place of an admin service.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/database"
	sharedPersistence "github.com/habitlog/habitlog/internal/shared/infrastructure/persistence"
	"github.com/habitlog/habitlog/internal/shared/infrastructure/security"
	"gopkg.in/yaml.v3"
)

// Catalog is the YAML document layout.
type Catalog struct {
	Categories  []Category   `yaml:"categories"`
	Assignments []Assignment `yaml:"assignments"`
}

// Category is a category with its checklist.
type Category struct {
	ID        uuid.UUID  `yaml:"id"`
	Name      string     `yaml:"name"`
	Inactive  bool       `yaml:"inactive,omitempty"`
	Templates []Template `yaml:"templates"`
}

// Template is a checklist item.
type Template struct {
	ID        uuid.UUID `yaml:"id"`
	Title     string    `yaml:"title"`
	Required  bool      `yaml:"required,omitempty"`
	SortOrder int       `yaml:"sort_order,omitempty"`
}

// Assignment enrolls a user in a category.
type Assignment struct {
	ID         uuid.UUID `yaml:"id"`
	UserID     uuid.UUID `yaml:"user_id"`
	CategoryID uuid.UUID `yaml:"category_id"`
	WeeklyGoal int       `yaml:"weekly_goal"`
	Inactive   bool      `yaml:"inactive,omitempty"`
	StartDate  string    `yaml:"start_date,omitempty"`
	EndDate    string    `yaml:"end_date,omitempty"`
}

// Result counts imported rows.
type Result struct {
	Categories  int `json:"categories"`
	Templates   int `json:"templates"`
	Assignments int `json:"assignments"`
}

// LoadFile reads and validates a catalog document.
func LoadFile(path string) (*Catalog, error) {
	data, err := security.ReadDocument(path, security.MaxDocumentBytes)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document. Missing ids are generated.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) normalize() error {
	var errs []error
	for i := range c.Categories {
		category := &c.Categories[i]
		category.Name = strings.TrimSpace(category.Name)
		if category.Name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
		}
		if category.ID == uuid.Nil {
			category.ID = uuid.New()
		}
		for j := range category.Templates {
			template := &category.Templates[j]
			template.Title = strings.TrimSpace(template.Title)
			if template.Title == "" {
				errs = append(errs, fmt.Errorf("categories[%d].templates[%d]: title is required", i, j))
			}
			if template.ID == uuid.Nil {
				template.ID = uuid.New()
			}
		}
	}
	for i := range c.Assignments {
		assignment := &c.Assignments[i]
		if assignment.UserID == uuid.Nil || assignment.CategoryID == uuid.Nil {
			errs = append(errs, fmt.Errorf("assignments[%d]: user_id and category_id are required", i))
		}
		if assignment.WeeklyGoal < 0 {
			errs = append(errs, fmt.Errorf("assignments[%d]: weekly_goal must not be negative", i))
		}
		for _, value := range []string{assignment.StartDate, assignment.EndDate} {
			if value == "" {
				continue
			}
			if _, err := sharedPersistence.ParseDate(value); err != nil {
				errs = append(errs, fmt.Errorf("assignments[%d]: %w", i, err))
			}
		}
		if assignment.ID == uuid.Nil {
			assignment.ID = uuid.New()
		}
	}
	return errors.Join(errs...)
}

// Importer writes a catalog into the entity store.
type Importer struct {
	db     *sql.DB
	driver database.Driver
	now    func() time.Time
}

// NewImporter creates an importer for a database/sql handle of driver.
func NewImporter(db *sql.DB, driver database.Driver) *Importer {
	return &Importer{db: db, driver: driver, now: time.Now}
}

// Import upserts every row of c in one transaction.
func (i *Importer) Import(ctx context.Context, c *Catalog) (Result, error) {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	now := i.now().UTC()
	var result Result
	for _, category := range c.Categories {
		if _, err := tx.ExecContext(ctx, i.rebind(`
			INSERT INTO categories (id, name, is_active, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, is_active = excluded.is_active`),
			i.id(category.ID), category.Name, i.boolean(!category.Inactive), i.timestamp(now),
		); err != nil {
			return Result{}, fmt.Errorf("import category %s: %w", category.Name, err)
		}
		result.Categories++

		for _, template := range category.Templates {
			if _, err := tx.ExecContext(ctx, i.rebind(`
				INSERT INTO task_templates (id, category_id, title, is_required, sort_order) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET title = excluded.title, is_required = excluded.is_required, sort_order = excluded.sort_order`),
				i.id(template.ID), i.id(category.ID), template.Title, i.boolean(template.Required), template.SortOrder,
			); err != nil {
				return Result{}, fmt.Errorf("import template %s: %w", template.Title, err)
			}
			result.Templates++
		}
	}

	for _, assignment := range c.Assignments {
		if _, err := tx.ExecContext(ctx, i.rebind(`
			INSERT INTO category_assignments (id, user_id, category_id, weekly_goal, is_active, start_date, end_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				weekly_goal = excluded.weekly_goal,
				is_active = excluded.is_active,
				start_date = excluded.start_date,
				end_date = excluded.end_date`),
			i.id(assignment.ID), i.id(assignment.UserID), i.id(assignment.CategoryID), assignment.WeeklyGoal,
			i.boolean(!assignment.Inactive), nullString(assignment.StartDate), nullString(assignment.EndDate), i.timestamp(now),
		); err != nil {
			return Result{}, fmt.Errorf("import assignment %s: %w", assignment.ID, err)
		}
		result.Assignments++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit import: %w", err)
	}
	return result, nil
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (i *Importer) rebind(query string) string {
	if i.driver != database.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (i *Importer) id(id uuid.UUID) string {
	return id.String()
}

func (i *Importer) boolean(b bool) any {
	if i.driver == database.DriverPostgres {
		return b
	}
	return sharedPersistence.BoolToInt(b)
}

func (i *Importer) timestamp(t time.Time) any {
	if i.driver == database.DriverPostgres {
		return t
	}
	return sharedPersistence.FormatTimestamp(t)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
