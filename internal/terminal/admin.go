package terminal

import (
	"context"
	"strings"

	"github.com/hellocms/blackforest/internal/catalog"
)

// CreateTableCategory adds a table category with tableCount tables and
// reloads the branch's tables.
func (t *Terminal) CreateTableCategory(ctx context.Context, name string, tableCount int) error {
	name = strings.TrimSpace(name)
	if name == "" || tableCount < 1 {
		return ErrTableCategoryInvalid
	}
	if err := t.be.CreateTableCategory(ctx, t.branchID, name, tableCount); err != nil {
		return err
	}
	return t.ReloadTables(ctx)
}

// UpdateTableCount resizes a table category and reloads the tables.
func (t *Terminal) UpdateTableCount(ctx context.Context, categoryID string, tableCount int) error {
	if categoryID == "" || tableCount < 1 {
		return ErrTableCategoryInvalid
	}
	if err := t.be.UpdateTableCount(ctx, categoryID, tableCount); err != nil {
		return err
	}
	return t.ReloadTables(ctx)
}

// ReloadTables refreshes table categories and their occupancy.
func (t *Terminal) ReloadTables(ctx context.Context) error {
	tables, err := t.be.TableCategories(ctx, t.branchID)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.tableCategories = tables
	return nil
}

// SaveAssignment records today's cashier and/or manager for the receipt.
func (t *Terminal) SaveAssignment(ctx context.Context, cashierID, managerID string) (catalog.Assignment, error) {
	if cashierID == "" && managerID == "" {
		return catalog.Assignment{}, ErrAssignmentEmpty
	}
	a, err := t.be.SaveAssignment(ctx, t.branchID, cashierID, managerID)
	if err != nil {
		return catalog.Assignment{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.assignment = a
	return a, nil
}
