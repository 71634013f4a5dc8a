package transform_test

import (
	"testing"
	"time"

	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(description, amount string) scraper.RawTransaction {
	return scraper.RawTransaction{
		Date:            time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Description:     description,
		ChargedAmount:   decimal.RequireFromString(amount),
		ChargedCurrency: "ILS",
	}
}

func TestExternalIDHash(t *testing.T) {
	r := raw("Coffee", "-12.5")
	id := transform.ExternalID(r)

	assert.Len(t, id, 16)
	assert.Regexp(t, "^[0-9a-f]{16}$", id)
	assert.Equal(t, id, transform.ExternalID(r), "content hash must be deterministic")
}

func TestExternalIDUsesIdentifier(t *testing.T) {
	r := raw("Coffee", "-12.5")
	r.Identifier = " 111222333 "

	assert.Equal(t, "111222333", transform.ExternalID(r))
	assert.Equal(t, transform.ExternalID(r), transform.ExternalID(r))
}

func TestExternalIDChangesWithContent(t *testing.T) {
	base := raw("Coffee", "-12.5")

	otherDate := base
	otherDate.Date = base.Date.AddDate(0, 0, 1)

	otherAmount := base
	otherAmount.ChargedAmount = decimal.RequireFromString("-12.6")

	otherDescription := base
	otherDescription.Description = "Coffee shop"

	for _, r := range []scraper.RawTransaction{otherDate, otherAmount, otherDescription} {
		assert.NotEqual(t, transform.ExternalID(base), transform.ExternalID(r))
	}
}

func TestExternalIDIgnoresTimezone(t *testing.T) {
	utc := raw("Coffee", "-12.5")

	local := utc
	local.Date = utc.Date.In(time.FixedZone("IST", 2*60*60))

	assert.Equal(t, transform.ExternalID(utc), transform.ExternalID(local))
}

func TestType(t *testing.T) {
	tests := []struct {
		name        string
		description string
		amount      string
		accountType models.AccountType
		expected    models.TransactionType
	}{
		{"Positive is income", "Salary Inc.", "15000", models.AccountTypeBank, models.TransactionTypeIncome},
		{"Zero is income", "Adjustment", "0", models.AccountTypeBank, models.TransactionTypeIncome},
		{"Negative is expense", "Supermarket", "-250", models.AccountTypeBank, models.TransactionTypeExpense},
		{"Card bill on bank account is transfer", "ISRACARD 1234", "-3200", models.AccountTypeBank, models.TransactionTypeTransfer},
		{"Card bill in Hebrew", "ישראכרט חיוב חודשי", "-3200", models.AccountTypeBank, models.TransactionTypeTransfer},
		{"Card name on card account stays expense", "ISRACARD fee", "-10", models.AccountTypeCreditCard, models.TransactionTypeExpense},
		{"Card refund on bank account is income", "ISRACARD refund", "50", models.AccountTypeBank, models.TransactionTypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := transform.Transform([]scraper.RawTransaction{raw(tt.description, tt.amount)}, tt.accountType)
			require.Len(t, result, 1)
			assert.Equal(t, tt.expected, result[0].Type)
		})
	}
}

func TestTransformFields(t *testing.T) {
	processed := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	foreign := scraper.RawTransaction{
		Identifier:          "999",
		Date:                time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		ProcessedDate:       &processed,
		Description:         "קנייה - Store",
		OriginalDescription: "\u202dהיינק - Store",
		OriginalAmount:      decimal.NewFromInt(-25),
		OriginalCurrency:    "USD",
		ChargedAmount:       decimal.RequireFromString("-93.10"),
		ChargedCurrency:     "usd",
		Memo:                "payment 1 of 3",
	}

	result := transform.Transform([]scraper.RawTransaction{foreign, raw("Coffee", "-12.5")}, models.AccountTypeCreditCard)
	require.Len(t, result, 2)

	first := result[0]
	assert.Equal(t, "999", first.ExternalID)
	assert.True(t, decimal.RequireFromString("93.1").Equal(first.Amount), "amount must be unsigned, is %s", first.Amount)
	require.NotNil(t, first.Currency)
	assert.Equal(t, "USD", *first.Currency)
	require.NotNil(t, first.Memo)
	assert.Equal(t, "payment 1 of 3", *first.Memo)
	require.NotNil(t, first.OriginalDescription)
	assert.Equal(t, "\u202dהיינק - Store", *first.OriginalDescription)
	assert.Equal(t, &processed, first.ProcessedDate)
	assert.Equal(t, models.TransactionTypeExpense, first.Type)

	second := result[1]
	assert.Nil(t, second.Currency, "home currency is omitted")
	assert.Nil(t, second.Memo)
	assert.Nil(t, second.OriginalDescription)
	assert.Nil(t, second.ProcessedDate)
}

func TestTransformEmpty(t *testing.T) {
	result := transform.Transform(nil, models.AccountTypeBank)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
