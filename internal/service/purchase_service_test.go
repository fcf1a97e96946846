package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iskanderbentaleb/partenairex10/internal/dto"
	"github.com/iskanderbentaleb/partenairex10/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = uint(1)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// purchaseReq is the reference purchase used across tests: one item of 10
// units at 100 cost / 150 sale, 1000 gross, 100 discount, 50 shipping,
// 950 total, 500 paid.
func purchaseReq(supplierID, investorID uint) dto.PurchaseRequest {
	return dto.PurchaseRequest{
		SupplierID:    supplierID,
		InvestorID:    investorID,
		InvoiceNumber: "PUR-001",
		PurchaseDate:  "2026-03-01",
		Subtotal:      dec("1000"),
		DiscountValue: dec("100"),
		ShippingValue: dec("50"),
		Total:         dec("950"),
		AmountPaid:    dec("500"),
		Items: []dto.PurchaseItemInput{
			{
				ProductName:      "Wireless mouse",
				BarcodePrincipal: "619123",
				Quantity:         10,
				UnitPrice:        dec("100"),
				SalePrice:        dec("150"),
			},
		},
	}
}

func TestPurchaseCreateWritesLinkedLedger(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	resp, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)

	assertDecimal(t, "950", resp.Total)
	assertDecimal(t, "500", resp.AmountPaid)
	assert.Equal(t, "DZD", resp.Currency, "falls back to the default currency")
	require.Len(t, resp.Items, 1)
	assertDecimal(t, "1000", resp.Items[0].Subtotal)
	assert.Equal(t, 10, resp.Items[0].AvailableQuantity)

	// Supplier side of the ledger carries what was actually paid.
	require.Len(t, env.supplierTxs.txs, 1)
	supplierTx, err := env.supplierTxs.FindByID(context.Background(), ownerID, 1)
	require.NoError(t, err)
	assertDecimal(t, "500", supplierTx.Amount)
	require.NotNil(t, supplierTx.PurchaseID)
	assert.Equal(t, resp.ID, *supplierTx.PurchaseID)
	assert.True(t, supplierTx.Linked())

	// Investor side carries the full commitment, not just the paid part.
	require.Len(t, env.investorTxs.txs, 1)
	investorTx, err := env.investorTxs.FindByID(context.Background(), ownerID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Out", investorTx.Type)
	assertDecimal(t, "950", investorTx.Amount)
	require.NotNil(t, investorTx.PurchaseID)
	assert.True(t, investorTx.Linked())
}

func TestPurchaseCreateAssignsGeneratedBarcode(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	resp, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.Equal(t, service.GeneratedBarcode(item.ID, "619123"), item.BarcodeGenerated)
	assert.Equal(t, "1619123", item.BarcodeGenerated)
}

func TestGeneratedBarcode(t *testing.T) {
	cases := []struct {
		id        uint
		principal string
		want      string
	}{
		{1, "ABC", "1ABC"},
		{10, "619123", "A619123"},
		{255, "", "FF"},
		{4096, "7", "10007"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, service.GeneratedBarcode(c.id, c.principal))
	}
}

func TestPurchaseCreateRejectsOverpayment(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	req := purchaseReq(supplier.ID, investor.ID)
	req.AmountPaid = dec("951")

	_, err := env.purchase.Create(context.Background(), ownerID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrOverpayment)

	var fe *service.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "amount_paid", fe.Field)

	assert.Empty(t, env.purchases.purchases, "nothing persisted on rejection")
	assert.Empty(t, env.supplierTxs.txs)
	assert.Empty(t, env.investorTxs.txs)
}

func TestPurchaseCreateRejectsDiscountOverSubtotal(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	req := purchaseReq(supplier.ID, investor.ID)
	req.DiscountValue = dec("1001")

	_, err := env.purchase.Create(context.Background(), ownerID, req)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestPurchaseCreateRejectsNegativeItemPrice(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	req := purchaseReq(supplier.ID, investor.ID)
	req.Items = append(req.Items, dto.PurchaseItemInput{
		ProductName: "Keyboard",
		Quantity:    5,
		UnitPrice:   dec("-1"),
		SalePrice:   dec("10"),
	})

	_, err := env.purchase.Create(context.Background(), ownerID, req)
	require.ErrorIs(t, err, service.ErrValidation)

	var fe *service.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "items[1].unit_price", fe.Field)
}

func TestPurchaseCreateRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	for _, qty := range []int{0, -3} {
		req := purchaseReq(supplier.ID, investor.ID)
		req.Items[0].Quantity = qty

		_, err := env.purchase.Create(context.Background(), ownerID, req)
		require.ErrorIs(t, err, service.ErrValidation, "quantity %d", qty)

		var fe *service.FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "items[0].quantity", fe.Field)
	}
	assert.Empty(t, env.purchases.purchases)
}

func TestPurchaseCreateUnknownSupplier(t *testing.T) {
	env := newTestEnv(t)
	investor := env.seedInvestor(t, ownerID, "Karim")

	_, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(99, investor.ID))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPurchaseCreateOtherOwnersSupplier(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, 2, "Someone else's supplier")
	investor := env.seedInvestor(t, ownerID, "Karim")

	_, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPurchaseUpdateSyncsLinkedLedger(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)

	req := purchaseReq(supplier.ID, investor.ID)
	req.AmountPaid = dec("700")
	req.Items[0].ID = &created.Items[0].ID

	_, err = env.purchase.Update(context.Background(), ownerID, created.ID, req)
	require.NoError(t, err)

	// Same ledger rows updated in place, not duplicated.
	require.Len(t, env.supplierTxs.txs, 1)
	supplierTx, err := env.supplierTxs.FindByID(context.Background(), ownerID, 1)
	require.NoError(t, err)
	assertDecimal(t, "700", supplierTx.Amount)

	require.Len(t, env.investorTxs.txs, 1)
	investorTx, err := env.investorTxs.FindByID(context.Background(), ownerID, 1)
	require.NoError(t, err)
	assertDecimal(t, "950", investorTx.Amount)
}

func TestPurchaseUpdateDiffsItems(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	req := purchaseReq(supplier.ID, investor.ID)
	req.Items = append(req.Items, dto.PurchaseItemInput{
		ProductName: "Keyboard",
		Quantity:    5,
		UnitPrice:   dec("200"),
		SalePrice:   dec("300"),
	})
	created, err := env.purchase.Create(context.Background(), ownerID, req)
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	// Keep the mouse at a new quantity, drop the keyboard, add a charger.
	update := purchaseReq(supplier.ID, investor.ID)
	update.Items[0].ID = &created.Items[0].ID
	update.Items[0].Quantity = 12
	update.Items = append(update.Items, dto.PurchaseItemInput{
		ProductName: "Charger",
		Quantity:    4,
		UnitPrice:   dec("50"),
		SalePrice:   dec("90"),
	})

	resp, err := env.purchase.Update(context.Background(), ownerID, created.ID, update)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	assert.Equal(t, created.Items[0].ID, resp.Items[0].ID, "matched item keeps its id")
	assert.Equal(t, 12, resp.Items[0].Quantity)
	assert.Equal(t, "Charger", resp.Items[1].ProductName)
	assert.NotZero(t, resp.Items[1].BarcodeGenerated, "new item gets a barcode")

	_, err = env.items.FindByID(context.Background(), created.Items[1].ID)
	assert.Error(t, err, "unmatched keyboard is gone")
}

func TestPurchaseUpdateKeepsGeneratedBarcode(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)
	original := created.Items[0].BarcodeGenerated

	req := purchaseReq(supplier.ID, investor.ID)
	req.Items[0].ID = &created.Items[0].ID
	req.Items[0].BarcodePrincipal = "999999"

	resp, err := env.purchase.Update(context.Background(), ownerID, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "999999", resp.Items[0].BarcodePrincipal)
	assert.Equal(t, original, resp.Items[0].BarcodeGenerated,
		"generated barcode never follows the principal barcode")
}

func TestPurchaseUpdateRejectsQuantityBelowSold(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)
	env.items.items[created.Items[0].ID].QuantitySelled = 4

	req := purchaseReq(supplier.ID, investor.ID)
	req.Items[0].ID = &created.Items[0].ID
	req.Items[0].Quantity = 3

	_, err = env.purchase.Update(context.Background(), ownerID, created.ID, req)
	require.ErrorIs(t, err, service.ErrBelowSoldQuantity)

	var fe *service.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "items[0].quantity", fe.Field)
}

func TestPurchaseUpdateRejectsRemovingSoldItem(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)
	env.items.items[created.Items[0].ID].QuantitySelled = 2

	// Request omits the sold item entirely.
	req := purchaseReq(supplier.ID, investor.ID)
	req.Items = []dto.PurchaseItemInput{{
		ProductName: "Replacement",
		Quantity:    1,
		UnitPrice:   dec("10"),
		SalePrice:   dec("20"),
	}}

	_, err = env.purchase.Update(context.Background(), ownerID, created.ID, req)
	assert.ErrorIs(t, err, service.ErrItemHasSales)
}

func TestPurchaseDeleteRejectedWhileStockSold(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)
	env.items.items[created.Items[0].ID].QuantitySelled = 2

	err = env.purchase.Delete(context.Background(), ownerID, created.ID)
	require.ErrorIs(t, err, service.ErrItemHasSales)

	_, err = env.purchase.Get(context.Background(), ownerID, created.ID)
	assert.NoError(t, err, "purchase survives the rejected delete")
}

func TestPurchaseDeleteChecksSaleLinesNotJustCounters(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)
	itemID := created.Items[0].ID

	_, err = env.sale.Create(context.Background(), ownerID, saleReq(investor.ID, itemID, 3, "150"))
	require.NoError(t, err)

	// Zero the counter so only the sale lines themselves can reveal
	// the dependency.
	env.items.items[itemID].QuantitySelled = 0

	err = env.purchase.Delete(context.Background(), ownerID, created.ID)
	require.ErrorIs(t, err, service.ErrItemHasSales)

	_, err = env.purchase.Get(context.Background(), ownerID, created.ID)
	assert.NoError(t, err, "purchase survives the rejected delete")
}

func TestPurchaseDeleteRemovesItemsAndLedger(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")

	created, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.NoError(t, err)

	require.NoError(t, env.purchase.Delete(context.Background(), ownerID, created.ID))

	assert.Empty(t, env.purchases.purchases)
	assert.Empty(t, env.items.items)
	assert.Empty(t, env.supplierTxs.txs)
	assert.Empty(t, env.investorTxs.txs)
}

func TestPurchaseCreateStorageFailureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t, ownerID, "Grossiste Alger")
	investor := env.seedInvestor(t, ownerID, "Karim")
	env.purchases.failOn = "CreateTx"

	_, err := env.purchase.Create(context.Background(), ownerID, purchaseReq(supplier.ID, investor.ID))
	require.Error(t, err)

	assert.Empty(t, env.items.items)
	assert.Empty(t, env.supplierTxs.txs)
	assert.Empty(t, env.investorTxs.txs)
}

func TestPurchaseGetUnknownID(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.purchase.Get(context.Background(), ownerID, 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
