package service

import (
	"context"
	"time"

	"stockroom/internal/dto"
	"stockroom/internal/model"
	"stockroom/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. All Tx methods ignore the tx argument — runTx
// passes nil when the repository has no real database behind it, which is
// exactly the unit-test mode these stubs rely on.

// ─── Dispatcher stub ─────────────────────────────────────────────────────────

// stubAlertDispatcher records the low-stock check payloads a service enqueues.
type stubAlertDispatcher struct {
	alerts []interface{}
}

var _ stockAlertDispatcher = (*stubAlertDispatcher)(nil)

func (d *stubAlertDispatcher) EnqueueStockAlert(_ context.Context, payload interface{}) error {
	d.alerts = append(d.alerts, payload)
	return nil
}

// ─── ProductRepository stub ──────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKUAndWarehouse(_ context.Context, sku string, warehouseID uuid.UUID) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.WarehouseID == warehouseID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) ListBelowMin(_ context.Context, _ *uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.BelowMinimum() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) CountAll(_ context.Context, _ *uuid.UUID) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) SumStock(_ context.Context, _ *uuid.UUID) (int64, error) {
	var sum int64
	for _, p := range r.products {
		sum += int64(p.Stock)
	}
	return sum, nil
}

func (r *stubProductRepo) StockValuation(_ context.Context, _ *uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.products {
		total = total.Add(p.UnitCost.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return total, nil
}

func (r *stubProductRepo) CountOutOfStock(_ context.Context, _ *uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Stock == 0 {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) CountLowStock(_ context.Context, _ *uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Stock > 0 && p.BelowMinimum() {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU && existing.WarehouseID == p.WarehouseID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindBySKUAndWarehouseTx(_ *gorm.DB, sku string, warehouseID uuid.UUID) (*model.Product, error) {
	return r.FindBySKUAndWarehouse(context.Background(), sku, warehouseID)
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) DecrementStockGuardedTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return 0, nil
	}
	p.Stock -= qty
	return 1, nil
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = qty
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ─── StockMovementRepository stub ────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubMovementRepo) Recent(_ context.Context, limit int) ([]model.StockMovement, error) {
	if len(r.movements) <= limit {
		return r.movements, nil
	}
	return r.movements[len(r.movements)-limit:], nil
}

// byType filters recorded movements for assertions.
func (r *stubMovementRepo) byType(t model.MovementType) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// ─── ReceiptRepository stub ──────────────────────────────────────────────────

type stubReceiptRepo struct {
	receipts map[uuid.UUID]*model.Receipt
}

var _ repository.ReceiptRepository = (*stubReceiptRepo)(nil)

func newStubReceiptRepo() *stubReceiptRepo {
	return &stubReceiptRepo{receipts: make(map[uuid.UUID]*model.Receipt)}
}

func (r *stubReceiptRepo) Create(_ context.Context, rec *model.Receipt) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	for i := range rec.Items {
		if rec.Items[i].ID == uuid.Nil {
			rec.Items[i].ID = uuid.New()
		}
		rec.Items[i].ReceiptID = rec.ID
	}
	r.receipts[rec.ID] = rec
	return nil
}

func (r *stubReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receipt, error) {
	rec, ok := r.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *stubReceiptRepo) List(_ context.Context, _ dto.ReceiptFilter) ([]model.Receipt, int64, error) {
	var out []model.Receipt
	for _, rec := range r.receipts {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *stubReceiptRepo) Update(_ context.Context, rec *model.Receipt) error {
	stored, ok := r.receipts[rec.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := stored.Items
	cp := *rec
	cp.Items = items
	r.receipts[rec.ID] = &cp
	return nil
}

func (r *stubReceiptRepo) ReplaceItems(_ context.Context, receiptID uuid.UUID, items []model.ReceiptItem) error {
	rec, ok := r.receipts[receiptID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].ReceiptID = receiptID
	}
	rec.Items = items
	return nil
}

func (r *stubReceiptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.receipts, id)
	return nil
}

func (r *stubReceiptRepo) CountByStatus(_ context.Context, _ *uuid.UUID, statuses ...model.Status) (int64, error) {
	var n int64
	for _, rec := range r.receipts {
		for _, s := range statuses {
			if rec.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *stubReceiptRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Receipt, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubReceiptRepo) UpdateStatusGuardedTx(_ *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, validatedAt *time.Time) (int64, error) {
	rec, ok := r.receipts[id]
	if !ok {
		return 0, nil
	}
	for _, s := range from {
		if rec.Status == s {
			rec.Status = to
			if validatedAt != nil {
				rec.ValidatedAt = validatedAt
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubReceiptRepo) DB() *gorm.DB { return nil }

// ─── DeliveryRepository stub ─────────────────────────────────────────────────

type stubDeliveryRepo struct {
	deliveries map[uuid.UUID]*model.Delivery
}

var _ repository.DeliveryRepository = (*stubDeliveryRepo)(nil)

func newStubDeliveryRepo() *stubDeliveryRepo {
	return &stubDeliveryRepo{deliveries: make(map[uuid.UUID]*model.Delivery)}
}

func (r *stubDeliveryRepo) Create(_ context.Context, d *model.Delivery) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range d.Items {
		if d.Items[i].ID == uuid.Nil {
			d.Items[i].ID = uuid.New()
		}
		d.Items[i].DeliveryID = d.ID
	}
	r.deliveries[d.ID] = d
	return nil
}

func (r *stubDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Delivery, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubDeliveryRepo) List(_ context.Context, _ dto.DeliveryFilter) ([]model.Delivery, int64, error) {
	var out []model.Delivery
	for _, d := range r.deliveries {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDeliveryRepo) Update(_ context.Context, d *model.Delivery) error {
	stored, ok := r.deliveries[d.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := stored.Items
	cp := *d
	cp.Items = items
	r.deliveries[d.ID] = &cp
	return nil
}

func (r *stubDeliveryRepo) ReplaceItems(_ context.Context, deliveryID uuid.UUID, items []model.DeliveryItem) error {
	d, ok := r.deliveries[deliveryID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].DeliveryID = deliveryID
	}
	d.Items = items
	return nil
}

func (r *stubDeliveryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.deliveries, id)
	return nil
}

func (r *stubDeliveryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.deliveries)), nil
}

func (r *stubDeliveryRepo) CountByStatus(_ context.Context, _ *uuid.UUID, statuses ...model.Status) (int64, error) {
	var n int64
	for _, d := range r.deliveries {
		for _, s := range statuses {
			if d.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *stubDeliveryRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Delivery, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubDeliveryRepo) UpdateStatusGuardedTx(_ *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, deliveredAt *time.Time) (int64, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return 0, nil
	}
	for _, s := range from {
		if d.Status == s {
			d.Status = to
			if deliveredAt != nil {
				d.DeliveredAt = deliveredAt
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubDeliveryRepo) DB() *gorm.DB { return nil }

// ─── TransferRepository stub ─────────────────────────────────────────────────

type stubTransferRepo struct {
	transfers map[uuid.UUID]*model.Transfer
}

var _ repository.TransferRepository = (*stubTransferRepo)(nil)

func newStubTransferRepo() *stubTransferRepo {
	return &stubTransferRepo{transfers: make(map[uuid.UUID]*model.Transfer)}
}

func (r *stubTransferRepo) Create(_ context.Context, t *model.Transfer) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Items {
		if t.Items[i].ID == uuid.Nil {
			t.Items[i].ID = uuid.New()
		}
		t.Items[i].TransferID = t.ID
	}
	r.transfers[t.ID] = t
	return nil
}

func (r *stubTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transfer, error) {
	t, ok := r.transfers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTransferRepo) List(_ context.Context, _ dto.TransferFilter) ([]model.Transfer, int64, error) {
	var out []model.Transfer
	for _, t := range r.transfers {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransferRepo) Update(_ context.Context, t *model.Transfer) error {
	stored, ok := r.transfers[t.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := stored.Items
	cp := *t
	cp.Items = items
	r.transfers[t.ID] = &cp
	return nil
}

func (r *stubTransferRepo) ReplaceItems(_ context.Context, transferID uuid.UUID, items []model.TransferItem) error {
	t, ok := r.transfers[transferID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].TransferID = transferID
	}
	t.Items = items
	return nil
}

func (r *stubTransferRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.transfers, id)
	return nil
}

func (r *stubTransferRepo) CountByStatus(_ context.Context, statuses ...model.Status) (int64, error) {
	var n int64
	for _, t := range r.transfers {
		for _, s := range statuses {
			if t.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *stubTransferRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Transfer, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubTransferRepo) UpdateStatusGuardedTx(_ *gorm.DB, id uuid.UUID, from []model.Status, to model.Status, completedAt *time.Time) (int64, error) {
	t, ok := r.transfers[id]
	if !ok {
		return 0, nil
	}
	for _, s := range from {
		if t.Status == s {
			t.Status = to
			if completedAt != nil {
				t.CompletedAt = completedAt
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubTransferRepo) DB() *gorm.DB { return nil }

// ─── WarehouseRepository stub ────────────────────────────────────────────────

type stubWarehouseRepo struct {
	warehouses map[uuid.UUID]*model.Warehouse
	productsIn map[uuid.UUID]int64
}

var _ repository.WarehouseRepository = (*stubWarehouseRepo)(nil)

func newStubWarehouseRepo() *stubWarehouseRepo {
	return &stubWarehouseRepo{
		warehouses: make(map[uuid.UUID]*model.Warehouse),
		productsIn: make(map[uuid.UUID]int64),
	}
}

func (r *stubWarehouseRepo) add(name string) *model.Warehouse {
	w := &model.Warehouse{ID: uuid.New(), Name: name, IsActive: true}
	r.warehouses[w.ID] = w
	return w
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWarehouseRepo) List(_ context.Context, includeInactive bool) ([]model.Warehouse, error) {
	var out []model.Warehouse
	for _, w := range r.warehouses {
		if w.IsActive || includeInactive {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWarehouseRepo) Update(_ context.Context, w *model.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *stubWarehouseRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	return r.productsIn[id], nil
}

// ─── CategoryRepository stub ─────────────────────────────────────────────────

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
	productsIn map[uuid.UUID]int64
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{
		categories: make(map[uuid.UUID]*model.Category),
		productsIn: make(map[uuid.UUID]int64),
	}
}

func (r *stubCategoryRepo) add(name string) *model.Category {
	c := &model.Category{ID: uuid.New(), Name: name}
	r.categories[c.ID] = c
	return c
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	return r.productsIn[id], nil
}
