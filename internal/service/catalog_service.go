package service

import (
	"context"
	"fmt"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

// ─── Warehouses ──────────────────────────────────────────────────────────────

type WarehouseService interface {
	Create(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.WarehouseResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.WarehouseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type warehouseService struct {
	repo repository.WarehouseRepository
}

func NewWarehouseService(repo repository.WarehouseRepository) WarehouseService {
	return &warehouseService{repo: repo}
}

func (s *warehouseService) Create(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w := &model.Warehouse{
		Name:      req.Name,
		ShortCode: req.ShortCode,
		Location:  req.Location,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, apierror.Validation("warehouse name already in use")
	}
	resp := warehouseToResponse(w)
	return &resp, nil
}

func (s *warehouseService) Get(ctx context.Context, id uuid.UUID) (*dto.WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("warehouse not found")
	}
	resp := warehouseToResponse(w)
	return &resp, nil
}

func (s *warehouseService) List(ctx context.Context, includeInactive bool) ([]dto.WarehouseResponse, error) {
	warehouses, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, warehouseToResponse(&warehouses[i]))
	}
	return out, nil
}

func (s *warehouseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("warehouse not found")
	}
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.ShortCode != nil {
		w.ShortCode = req.ShortCode
	}
	if req.Location != nil {
		w.Location = req.Location
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	resp := warehouseToResponse(w)
	return &resp, nil
}

func (s *warehouseService) Deactivate(ctx context.Context, id uuid.UUID) error {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("warehouse not found")
	}
	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apierror.Validation(fmt.Sprintf("warehouse %s still holds %d products", w.Name, n))
	}
	w.IsActive = false
	return s.repo.Update(ctx, w)
}

func warehouseToResponse(w *model.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		ShortCode: w.ShortCode,
		Location:  w.Location,
		IsActive:  w.IsActive,
	}
}

// ─── Locations ───────────────────────────────────────────────────────────────

type LocationService interface {
	Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type locationService struct {
	repo          repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
}

func NewLocationService(repo repository.LocationRepository, warehouseRepo repository.WarehouseRepository) LocationService {
	return &locationService{repo: repo, warehouseRepo: warehouseRepo}
}

func (s *locationService) Create(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apierror.Validation("invalid warehouse_id")
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, apierror.NotFound("warehouse not found")
	}
	l := &model.Location{
		Name:        req.Name,
		ShortCode:   req.ShortCode,
		WarehouseID: warehouseID,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	resp := locationToResponse(l)
	return &resp, nil
}

func (s *locationService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]dto.LocationResponse, error) {
	locations, err := s.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, locationToResponse(&locations[i]))
	}
	return out, nil
}

func (s *locationService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("location not found")
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.ShortCode != nil {
		l.ShortCode = req.ShortCode
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	resp := locationToResponse(l)
	return &resp, nil
}

func (s *locationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NotFound("location not found")
	}
	return s.repo.Delete(ctx, id)
}

func locationToResponse(l *model.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:          l.ID.String(),
		Name:        l.Name,
		ShortCode:   l.ShortCode,
		WarehouseID: l.WarehouseID.String(),
	}
}

// ─── Categories ──────────────────────────────────────────────────────────────

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apierror.Validation("category name already in use")
	}
	resp := categoryToResponse(c, 0)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		n, err := s.repo.CountProducts(ctx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, categoryToResponse(&categories[i], n))
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("category not found")
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := categoryToResponse(c, 0)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("category not found")
	}
	n, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apierror.Validation(fmt.Sprintf("category %s is still assigned to %d products", c.Name, n))
	}
	return s.repo.Delete(ctx, id)
}

func categoryToResponse(c *model.Category, productCount int64) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: productCount,
	}
}
