package service_test

import (
	"context"
	"sync"
	"testing"

	"stockctl/internal/apierror"
	"stockctl/internal/dto"
	"stockctl/internal/model"
	"stockctl/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creditFixture struct {
	svc       service.CreditService
	saleSvc   service.SaleService
	products  *stubProductRepo
	employees *stubEmployeeRepo
	sales     *stubSaleRepo
	credits   *stubCreditRepo
}

func newCreditFixture(t *testing.T) *creditFixture {
	products := newStubProductRepo()
	employees := newStubEmployeeRepo()
	sales := newStubSaleRepo(products)
	credits := newStubCreditRepo()
	return &creditFixture{
		svc:       service.NewCreditService(credits, employees, sales),
		saleSvc:   service.NewSaleService(sales, products, employees, credits, t.TempDir()),
		products:  products,
		employees: employees,
		sales:     sales,
		credits:   credits,
	}
}

func (f *creditFixture) charge(t *testing.T, employeeID uuid.UUID, amount string) {
	t.Helper()
	require.NoError(t, f.credits.CreateTx(context.Background(), nil, &model.CreditTransaction{
		EmployeeID: employeeID,
		Type:       model.CreditCharge,
		Amount:     dec(amount),
	}))
}

func TestBalanceIsSignedSumOfLedger(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "Maria Andreas"})

	f.charge(t, emp.ID, "175.00")
	f.charge(t, emp.ID, "60.00")
	require.NoError(t, f.credits.CreateTx(context.Background(), nil, &model.CreditTransaction{
		EmployeeID: emp.ID,
		Type:       model.CreditPayment,
		Amount:     dec("100.00"),
	}))

	bal, err := f.svc.BalanceForEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("135.00")), "balance = %s", bal)
}

func TestRecordPaymentReducesBalance(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	f.charge(t, emp.ID, "175.00")

	resp, err := f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{
		Amount: dec("100.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Applied.Equal(dec("100.00")))
	assert.True(t, resp.Remaining.Equal(dec("75.00")), "remaining = %s", resp.Remaining)

	bal, err := f.svc.BalanceForEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("75.00")))
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	f.charge(t, emp.ID, "175.00")

	_, err := f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("100.00")})
	require.NoError(t, err)

	// A second 100 against the remaining 75 must fail and leave the ledger alone
	_, err = f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("100.00")})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Contains(t, err.Error(), "75.00")

	bal, err := f.svc.BalanceForEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("75.00")), "balance = %s", bal)
}

func TestRecordPaymentRejectsWhenNothingOwed(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "John Smith"})

	_, err := f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("10.00")})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "John Smith"})
	f.charge(t, emp.ID, "50.00")

	_, err := f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("0")})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("-5")})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestRecordPaymentUnknownEmployee(t *testing.T) {
	f := newCreditFixture(t)

	_, err := f.svc.RecordPayment(context.Background(), uuid.New(), dto.CreditPaymentRequest{Amount: dec("10.00")})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

// Two concurrent payments that each fit the outstanding balance alone but not
// together: exactly one must win.
func TestConcurrentPaymentsCannotJointlyOverpay(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	f.charge(t, emp.ID, "100.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{
				Amount: dec("60.00"),
			})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	bal, err := f.svc.BalanceForEmployee(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("40.00")), "balance = %s", bal)
}

func TestSummarySortedByBalanceWithCreditItems(t *testing.T) {
	f := newCreditFixture(t)
	maria := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	petrus := f.employees.add(&model.Employee{Name: "Petrus Shilongo"})
	f.employees.add(&model.Employee{Name: "John Smith"}) // no credit activity

	rice := f.products.add(&model.Product{Name: "Rice 1kg", SKU: "RICE-1KG", StockQty: dec("100")})

	// Credit sales through the sale service so ledger and items line up
	_, err := f.saleSvc.CreateSale(context.Background(), dto.CreateSaleRequest{
		EmployeeID:    strp(maria.ID.String()),
		PaymentMethod: model.PaymentCredit,
		Items:         []dto.SaleItemRequest{{ProductID: rice.ID.String(), Qty: dec("5"), UnitPrice: dec("35.00")}},
	})
	require.NoError(t, err)
	_, err = f.saleSvc.CreateSale(context.Background(), dto.CreateSaleRequest{
		EmployeeID:    strp(petrus.ID.String()),
		PaymentMethod: model.PaymentCredit,
		Items:         []dto.SaleItemRequest{{ProductID: rice.ID.String(), Qty: dec("8"), UnitPrice: dec("35.00")}},
	})
	require.NoError(t, err)

	items, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Petrus owes 280, Maria 175 — descending order
	assert.Equal(t, "Petrus Shilongo", items[0].EmployeeName)
	assert.True(t, items[0].Balance.Equal(dec("280.00")))
	assert.Equal(t, "Maria Andreas", items[1].EmployeeName)
	assert.True(t, items[1].Balance.Equal(dec("175.00")))

	require.Len(t, items[1].Items, 1)
	assert.Equal(t, "Rice 1kg", items[1].Items[0].Product)
	assert.True(t, items[1].Items[0].Subtotal.Equal(dec("175.00")))
}

func TestSummaryExcludesSettledEmployees(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	f.charge(t, emp.ID, "50.00")
	_, err := f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("50.00")})
	require.NoError(t, err)

	items, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPaymentHistoryAggregatesTotalPaid(t *testing.T) {
	f := newCreditFixture(t)
	emp := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	f.charge(t, emp.ID, "175.00")

	_, err := f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("100.00")})
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(context.Background(), emp.ID, dto.CreditPaymentRequest{Amount: dec("25.00")})
	require.NoError(t, err)

	history, err := f.svc.PaymentHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Maria Andreas", history[0].EmployeeName)
	assert.True(t, history[0].TotalPaid.Equal(dec("125.00")), "paid = %s", history[0].TotalPaid)
}

func TestOutstandingCreditSumIgnoresNegativeBalances(t *testing.T) {
	f := newCreditFixture(t)
	maria := f.employees.add(&model.Employee{Name: "Maria Andreas"})
	petrus := f.employees.add(&model.Employee{Name: "Petrus Shilongo"})

	f.charge(t, maria.ID, "175.00")
	f.charge(t, petrus.ID, "40.00")
	// Legacy data: Petrus somehow overpaid before the guard existed
	require.NoError(t, f.credits.CreateTx(context.Background(), nil, &model.CreditTransaction{
		EmployeeID: petrus.ID,
		Type:       model.CreditPayment,
		Amount:     dec("60.00"),
	}))

	total, err := f.svc.OutstandingCreditSum(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("175.00")), "outstanding = %s", total)
}
