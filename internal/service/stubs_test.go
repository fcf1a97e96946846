package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/model"
	"github.com/iskanderbentaleb/partenairex10/internal/repository"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
//
// In-memory repositories for unit tests. DB() returns nil so services run
// their transaction bodies directly without a database.

type stubUserRepo struct {
	users map[uint]*model.User
	seq   uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.seq++
	u.ID = r.seq
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubSupplierRepo struct {
	suppliers     map[uint]*model.Supplier
	purchaseCount map[uint]int64
	seq           uint
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		suppliers:     make(map[uint]*model.Supplier),
		purchaseCount: make(map[uint]int64),
	}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.seq++
	s.ID = r.seq
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, ownerID, id uint) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok || s.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context, ownerID uint, _ dto.PageFilter) ([]model.Supplier, int64, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, ownerID, id uint) error {
	s, ok := r.suppliers[id]
	if !ok || s.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) CountPurchases(_ context.Context, supplierID uint) (int64, error) {
	return r.purchaseCount[supplierID], nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

type stubInvestorRepo struct {
	investors map[uint]*model.Investor
	seq       uint
}

func newStubInvestorRepo() *stubInvestorRepo {
	return &stubInvestorRepo{investors: make(map[uint]*model.Investor)}
}

func (r *stubInvestorRepo) Create(_ context.Context, i *model.Investor) error {
	r.seq++
	i.ID = r.seq
	r.investors[i.ID] = i
	return nil
}

func (r *stubInvestorRepo) FindByID(_ context.Context, ownerID, id uint) (*model.Investor, error) {
	i, ok := r.investors[id]
	if !ok || i.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubInvestorRepo) List(_ context.Context, ownerID uint, _ dto.PageFilter) ([]model.Investor, int64, error) {
	var out []model.Investor
	for _, i := range r.investors {
		if i.OwnerID == ownerID {
			out = append(out, *i)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInvestorRepo) Update(_ context.Context, i *model.Investor) error {
	r.investors[i.ID] = i
	return nil
}

func (r *stubInvestorRepo) Delete(_ context.Context, ownerID, id uint) error {
	i, ok := r.investors[id]
	if !ok || i.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(r.investors, id)
	return nil
}

var _ repository.InvestorRepository = (*stubInvestorRepo)(nil)

type stubPurchaseRepo struct {
	purchases map[uint]*model.Purchase
	itemRepo  *stubPurchaseItemRepo
	seq       uint
	failOn    string // method name that returns an injected error
}

func newStubPurchaseRepo(itemRepo *stubPurchaseItemRepo) *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uint]*model.Purchase), itemRepo: itemRepo}
}

func (r *stubPurchaseRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	if r.failOn == "CreateTx" {
		return fmt.Errorf("injected create failure")
	}
	r.seq++
	p.ID = r.seq
	stored := *p
	stored.Items = nil
	r.purchases[p.ID] = &stored
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, ownerID, id uint) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok || p.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	out := *p
	if r.itemRepo != nil {
		out.Items = r.itemRepo.byPurchase(id)
	}
	return &out, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, ownerID uint, _ dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		if p.OwnerID == ownerID {
			cp := *p
			if r.itemRepo != nil {
				cp.Items = r.itemRepo.byPurchase(p.ID)
			}
			out = append(out, cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) SaveTx(_ *gorm.DB, p *model.Purchase) error {
	stored := *p
	stored.Items = nil
	r.purchases[p.ID] = &stored
	return nil
}

func (r *stubPurchaseRepo) DeleteTx(_ *gorm.DB, id uint) error {
	delete(r.purchases, id)
	return nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

type stubPurchaseItemRepo struct {
	items map[uint]*model.PurchaseItem
	// purchaseRepo lets FindByID preload the owning purchase the way the
	// real repository does; wired after construction.
	purchaseRepo *stubPurchaseRepo
	seq          uint
}

func newStubPurchaseItemRepo() *stubPurchaseItemRepo {
	return &stubPurchaseItemRepo{items: make(map[uint]*model.PurchaseItem)}
}

func (r *stubPurchaseItemRepo) byPurchase(purchaseID uint) []model.PurchaseItem {
	var out []model.PurchaseItem
	for i := r.seq; i >= 1; i-- {
		if item, ok := r.items[i]; ok && item.PurchaseID == purchaseID {
			out = append([]model.PurchaseItem{*item}, out...)
		}
	}
	return out
}

func (r *stubPurchaseItemRepo) CreateTx(_ *gorm.DB, item *model.PurchaseItem) error {
	r.seq++
	item.ID = r.seq
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *stubPurchaseItemRepo) SetGeneratedBarcodeTx(_ *gorm.DB, id uint, barcode string) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.BarcodeGenerated = barcode
	return nil
}

func (r *stubPurchaseItemRepo) SaveTx(_ *gorm.DB, item *model.PurchaseItem) error {
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *stubPurchaseItemRepo) DeleteTx(_ *gorm.DB, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *stubPurchaseItemRepo) FindByID(_ context.Context, id uint) (*model.PurchaseItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *item
	if r.purchaseRepo != nil {
		if p, ok := r.purchaseRepo.purchases[item.PurchaseID]; ok {
			cp := *p
			out.Purchase = &cp
		}
	}
	return &out, nil
}

func (r *stubPurchaseItemRepo) ListByPurchase(_ context.Context, purchaseID uint) ([]model.PurchaseItem, error) {
	return r.byPurchase(purchaseID), nil
}

func (r *stubPurchaseItemRepo) ListAvailableByInvestor(_ context.Context, ownerID, investorID uint) ([]model.PurchaseItem, error) {
	var out []model.PurchaseItem
	for i := uint(1); i <= r.seq; i++ {
		item, ok := r.items[i]
		if !ok || item.Quantity <= item.QuantitySelled {
			continue
		}
		if r.purchaseRepo != nil {
			p, ok := r.purchaseRepo.purchases[item.PurchaseID]
			if !ok || p.OwnerID != ownerID || p.InvestorID != investorID {
				continue
			}
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *stubPurchaseItemRepo) ReserveTx(_ *gorm.DB, id uint, qty int) (bool, error) {
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	if item.Quantity-item.QuantitySelled < qty {
		return false, nil
	}
	item.QuantitySelled += qty
	return true, nil
}

func (r *stubPurchaseItemRepo) ReleaseTx(_ *gorm.DB, id uint, qty int) (bool, error) {
	item, ok := r.items[id]
	if !ok {
		return false, nil
	}
	if item.QuantitySelled < qty {
		return false, nil
	}
	item.QuantitySelled -= qty
	return true, nil
}

func (r *stubPurchaseItemRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseItemRepository = (*stubPurchaseItemRepo)(nil)

type stubSaleRepo struct {
	sales map[uint]*model.Sale
	seq   uint
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uint]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.seq++
	s.ID = r.seq
	for i := range s.Items {
		s.Items[i].SaleID = s.ID
	}
	stored := *s
	r.sales[s.ID] = &stored
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, ownerID, id uint) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || s.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	return &out, nil
}

func (r *stubSaleRepo) List(_ context.Context, ownerID uint, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uint) error {
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) DeleteItemsTx(_ *gorm.DB, saleID uint) error {
	if s, ok := r.sales[saleID]; ok {
		s.Items = nil
	}
	return nil
}

func (r *stubSaleRepo) CountByPurchaseItems(_ context.Context, itemIDs []uint) (int64, error) {
	ids := make(map[uint]bool, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = true
	}
	var n int64
	for _, s := range r.sales {
		for _, line := range s.Items {
			if ids[line.PurchaseItemID] {
				n++
			}
		}
	}
	return n, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubSupplierTxRepo struct {
	txs map[uint]*model.SupplierTransaction
	seq uint
}

func newStubSupplierTxRepo() *stubSupplierTxRepo {
	return &stubSupplierTxRepo{txs: make(map[uint]*model.SupplierTransaction)}
}

func (r *stubSupplierTxRepo) Create(_ context.Context, t *model.SupplierTransaction) error {
	r.seq++
	t.ID = r.seq
	stored := *t
	r.txs[t.ID] = &stored
	return nil
}

func (r *stubSupplierTxRepo) CreateTx(_ *gorm.DB, t *model.SupplierTransaction) error {
	return r.Create(context.Background(), t)
}

func (r *stubSupplierTxRepo) FindByID(_ context.Context, ownerID, id uint) (*model.SupplierTransaction, error) {
	t, ok := r.txs[id]
	if !ok || t.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	out := *t
	return &out, nil
}

func (r *stubSupplierTxRepo) FindByPurchaseTx(_ *gorm.DB, purchaseID uint) (*model.SupplierTransaction, error) {
	for _, t := range r.txs {
		if t.PurchaseID != nil && *t.PurchaseID == purchaseID {
			out := *t
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierTxRepo) Save(_ context.Context, t *model.SupplierTransaction) error {
	stored := *t
	r.txs[t.ID] = &stored
	return nil
}

func (r *stubSupplierTxRepo) SaveTx(_ *gorm.DB, t *model.SupplierTransaction) error {
	return r.Save(context.Background(), t)
}

func (r *stubSupplierTxRepo) Delete(_ context.Context, id uint) error {
	delete(r.txs, id)
	return nil
}

func (r *stubSupplierTxRepo) DeleteByPurchaseTx(_ *gorm.DB, purchaseID uint) error {
	for id, t := range r.txs {
		if t.PurchaseID != nil && *t.PurchaseID == purchaseID {
			delete(r.txs, id)
		}
	}
	return nil
}

func (r *stubSupplierTxRepo) List(_ context.Context, ownerID uint, _ dto.TransactionFilter) ([]model.SupplierTransaction, int64, error) {
	var out []model.SupplierTransaction
	for _, t := range r.txs {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSupplierTxRepo) DB() *gorm.DB { return nil }

var _ repository.SupplierTransactionRepository = (*stubSupplierTxRepo)(nil)

type stubInvestorTxRepo struct {
	txs map[uint]*model.InvestorTransaction
	seq uint
}

func newStubInvestorTxRepo() *stubInvestorTxRepo {
	return &stubInvestorTxRepo{txs: make(map[uint]*model.InvestorTransaction)}
}

func (r *stubInvestorTxRepo) Create(_ context.Context, t *model.InvestorTransaction) error {
	r.seq++
	t.ID = r.seq
	stored := *t
	r.txs[t.ID] = &stored
	return nil
}

func (r *stubInvestorTxRepo) CreateTx(_ *gorm.DB, t *model.InvestorTransaction) error {
	return r.Create(context.Background(), t)
}

func (r *stubInvestorTxRepo) FindByID(_ context.Context, ownerID, id uint) (*model.InvestorTransaction, error) {
	t, ok := r.txs[id]
	if !ok || t.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	out := *t
	return &out, nil
}

func (r *stubInvestorTxRepo) FindByPurchaseTx(_ *gorm.DB, purchaseID uint) (*model.InvestorTransaction, error) {
	for _, t := range r.txs {
		if t.PurchaseID != nil && *t.PurchaseID == purchaseID {
			out := *t
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvestorTxRepo) Save(_ context.Context, t *model.InvestorTransaction) error {
	stored := *t
	r.txs[t.ID] = &stored
	return nil
}

func (r *stubInvestorTxRepo) SaveTx(_ *gorm.DB, t *model.InvestorTransaction) error {
	return r.Save(context.Background(), t)
}

func (r *stubInvestorTxRepo) Delete(_ context.Context, id uint) error {
	delete(r.txs, id)
	return nil
}

func (r *stubInvestorTxRepo) DeleteByPurchaseTx(_ *gorm.DB, purchaseID uint) error {
	for id, t := range r.txs {
		if t.PurchaseID != nil && *t.PurchaseID == purchaseID {
			delete(r.txs, id)
		}
	}
	return nil
}

func (r *stubInvestorTxRepo) DeleteBySaleTx(_ *gorm.DB, saleID uint) error {
	for id, t := range r.txs {
		if t.SaleID != nil && *t.SaleID == saleID {
			delete(r.txs, id)
		}
	}
	return nil
}

func (r *stubInvestorTxRepo) List(_ context.Context, ownerID uint, _ dto.TransactionFilter) ([]model.InvestorTransaction, int64, error) {
	var out []model.InvestorTransaction
	for _, t := range r.txs {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInvestorTxRepo) DB() *gorm.DB { return nil }

var _ repository.InvestorTransactionRepository = (*stubInvestorTxRepo)(nil)

// stubBalanceRepo derives its aggregates from the other stubs so balance
// tests exercise real data instead of canned figures.
type stubBalanceRepo struct {
	investorTxRepo *stubInvestorTxRepo
	itemRepo       *stubPurchaseItemRepo
	purchaseRepo   *stubPurchaseRepo
	saleRepo       *stubSaleRepo
	supplierTxRepo *stubSupplierTxRepo
}

func (r *stubBalanceRepo) SumInvestorTransactions(_ context.Context, investorID uint, txType string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.investorTxRepo.txs {
		if t.InvestorID == investorID && t.Type == txType {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (r *stubBalanceRepo) CashInProcess(_ context.Context, investorID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range r.itemRepo.items {
		p, ok := r.purchaseRepo.purchases[item.PurchaseID]
		if !ok || p.InvestorID != investorID {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity - item.QuantitySelled))
		sum = sum.Add(item.UnitPrice.Mul(qty))
	}
	return sum, nil
}

func (r *stubBalanceRepo) Profit(_ context.Context, investorID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, s := range r.saleRepo.sales {
		if s.InvestorID != investorID {
			continue
		}
		for _, line := range s.Items {
			item, ok := r.itemRepo.items[line.PurchaseItemID]
			if !ok {
				continue
			}
			margin := line.SalePrice.Sub(item.UnitPrice)
			sum = sum.Add(margin.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	return sum, nil
}

func (r *stubBalanceRepo) PurchasesTotal(_ context.Context, supplierID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.purchaseRepo.purchases {
		if p.SupplierID == supplierID {
			sum = sum.Add(p.Total)
		}
	}
	return sum, nil
}

func (r *stubBalanceRepo) PaymentsTotal(_ context.Context, supplierID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.supplierTxRepo.txs {
		if t.SupplierID == supplierID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

var _ repository.BalanceRepository = (*stubBalanceRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type testEnv struct {
	suppliers   *stubSupplierRepo
	investors   *stubInvestorRepo
	purchases   *stubPurchaseRepo
	items       *stubPurchaseItemRepo
	sales       *stubSaleRepo
	supplierTxs *stubSupplierTxRepo
	investorTxs *stubInvestorTxRepo
	balances    *stubBalanceRepo

	inventory   service.InventoryService
	purchase    service.PurchaseService
	sale        service.SaleService
	ledger      service.LedgerService
	balance     service.BalanceService
	supplierSvc service.SupplierService
	investorSvc service.InvestorService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	items := newStubPurchaseItemRepo()
	purchases := newStubPurchaseRepo(items)
	items.purchaseRepo = purchases

	env := &testEnv{
		suppliers:   newStubSupplierRepo(),
		investors:   newStubInvestorRepo(),
		purchases:   purchases,
		items:       items,
		sales:       newStubSaleRepo(),
		supplierTxs: newStubSupplierTxRepo(),
		investorTxs: newStubInvestorTxRepo(),
	}
	env.balances = &stubBalanceRepo{
		investorTxRepo: env.investorTxs,
		itemRepo:       env.items,
		purchaseRepo:   env.purchases,
		saleRepo:       env.sales,
		supplierTxRepo: env.supplierTxs,
	}

	env.inventory = service.NewInventoryService(env.items)
	env.purchase = service.NewPurchaseService(
		env.purchases, env.inventory, env.suppliers, env.investors,
		env.supplierTxs, env.investorTxs, env.sales, nil, "DZD", t.TempDir(),
	)
	env.sale = service.NewSaleService(
		env.sales, env.items, env.inventory, env.investors, env.investorTxs, "DZD",
	)
	env.ledger = service.NewLedgerService(env.supplierTxs, env.investorTxs, env.suppliers, env.investors)
	env.balance = service.NewBalanceService(env.balances, env.suppliers, env.investors)
	env.supplierSvc = service.NewSupplierService(env.suppliers)
	env.investorSvc = service.NewInvestorService(env.investors, env.balance)
	return env
}

func (e *testEnv) seedSupplier(t *testing.T, ownerID uint, name string) *model.Supplier {
	t.Helper()
	s := &model.Supplier{OwnerID: ownerID, Name: name}
	if err := e.suppliers.Create(context.Background(), s); err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return s
}

func (e *testEnv) seedInvestor(t *testing.T, ownerID uint, name string) *model.Investor {
	t.Helper()
	i := &model.Investor{OwnerID: ownerID, Name: name}
	if err := e.investors.Create(context.Background(), i); err != nil {
		t.Fatalf("seed investor: %v", err)
	}
	return i
}
