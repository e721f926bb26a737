package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hellocms/blackforest/internal/catalog"
)

// Branch fetches a branch's header details.
func (c *Client) Branch(ctx context.Context, branchID string) (catalog.Branch, error) {
	var b catalog.Branch
	if err := c.do(ctx, http.MethodGet, "/api/branch/"+url.PathEscape(branchID), nil, &b); err != nil {
		return catalog.Branch{}, fmt.Errorf("fetch branch: %w", err)
	}
	return b, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/list-categories", nil, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Inventory fetches the branch stock snapshot.
func (c *Client) Inventory(ctx context.Context, branchID string) ([]catalog.InventoryEntry, error) {
	var out []catalog.InventoryEntry
	path := "/api/inventory?locationId=" + url.QueryEscape(branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	return out, nil
}

// Employees lists the active employees of a team.
func (c *Client) Employees(ctx context.Context, team string) ([]catalog.Employee, error) {
	var out []catalog.Employee
	path := "/api/employees?team=" + url.QueryEscape(team)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list %s employees: %w", team, err)
	}
	return catalog.ActiveOnly(out), nil
}

func (c *Client) TableCategories(ctx context.Context, branchID string) ([]catalog.TableCategory, error) {
	var env tableCategoriesEnvelope
	path := "/api/table-categories?branchId=" + url.QueryEscape(branchID)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("list table categories: %w", err)
	}
	return env.Categories, nil
}

func (c *Client) CreateTableCategory(ctx context.Context, branchID, name string, tableCount int) error {
	body := createTableCategoryRequest{Name: name, BranchID: branchID, TableCount: tableCount}
	if err := c.do(ctx, http.MethodPost, "/api/table-categories", body, nil); err != nil {
		return fmt.Errorf("create table category: %w", err)
	}
	return nil
}

func (c *Client) UpdateTableCount(ctx context.Context, categoryID string, tableCount int) error {
	body := updateTableCountRequest{TableCount: tableCount}
	if err := c.do(ctx, http.MethodPut, "/api/table-categories/"+url.PathEscape(categoryID), body, nil); err != nil {
		return fmt.Errorf("update table count: %w", err)
	}
	return nil
}

// TodayAssignment fetches today's cashier/manager. A branch with no
// assignment yet yields the zero Assignment.
func (c *Client) TodayAssignment(ctx context.Context, branchID string) (catalog.Assignment, error) {
	var a catalog.Assignment
	err := c.do(ctx, http.MethodGet, "/api/daily-assignments/"+url.PathEscape(branchID)+"/today", nil, &a)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return catalog.Assignment{}, nil
	}
	if err != nil {
		return catalog.Assignment{}, fmt.Errorf("fetch today's assignment: %w", err)
	}
	return a, nil
}

func (c *Client) SaveAssignment(ctx context.Context, branchID, cashierID, managerID string) (catalog.Assignment, error) {
	var env assignmentEnvelope
	body := saveAssignmentRequest{CashierID: cashierID, ManagerID: managerID}
	if err := c.do(ctx, http.MethodPost, "/api/daily-assignments/"+url.PathEscape(branchID), body, &env); err != nil {
		return catalog.Assignment{}, fmt.Errorf("save assignment: %w", err)
	}
	return env.Assignment, nil
}

// CreateOrder submits an order and returns it with its assigned bill number.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &env); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return env.Order, nil
}

func (c *Client) ReduceStock(ctx context.Context, r StockReduction) error {
	if err := c.do(ctx, http.MethodPut, "/api/inventory/reduce", r, nil); err != nil {
		return fmt.Errorf("reduce stock: %w", err)
	}
	return nil
}
