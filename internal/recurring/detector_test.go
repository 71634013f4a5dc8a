package recurring_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/recurring"
	"github.com/hearth-ledger/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var now = time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC)

type TestSuiteStandard struct {
	suite.Suite
	db        *gorm.DB
	household models.Household
	account   models.Account
	detector  *recurring.Detector
}

// Pseudo-Test run by go test that runs the test suite.
func TestSuite(t *testing.T) {
	suite.Run(t, new(TestSuiteStandard))
}

func (suite *TestSuiteStandard) SetupSuite() {
	os.Setenv("LOG_FORMAT", "human")
}

// SetupTest is called before each test in the suite.
func (suite *TestSuiteStandard) SetupTest() {
	suite.db = test.Database(suite.T())
	suite.household = test.Household(suite.T(), suite.db, "Cohen")
	suite.account = test.Account(suite.T(), suite.db, models.Account{HouseholdID: suite.household.ID, Type: models.AccountTypeBank})
	suite.detector = recurring.New(suite.db, recurring.Config{Now: func() time.Time { return now }})
}

func (suite *TestSuiteStandard) transaction(description string, date time.Time, amount int64, tType models.TransactionType, category *uuid.UUID) {
	t := models.Transaction{
		AccountID:   suite.account.ID,
		HouseholdID: suite.household.ID,
		ExternalID:  uuid.NewString(),
		Date:        date,
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		Type:        tType,
		CategoryID:  category,
	}
	suite.Require().NoError(suite.db.Create(&t).Error)
}

func (suite *TestSuiteStandard) category(name string, income bool) uuid.UUID {
	c := models.Category{HouseholdID: suite.household.ID, Name: name, Income: income}
	suite.Require().NoError(suite.db.Create(&c).Error)
	return c.ID
}

func (suite *TestSuiteStandard) monthly(description string, months int, amount int64, tType models.TransactionType, category *uuid.UUID) {
	for i := months; i >= 1; i-- {
		suite.transaction(description, time.Date(2024, time.Month(7-i), 1, 0, 0, 0, 0, time.UTC), amount, tType, category)
	}
}

func (suite *TestSuiteStandard) patterns() []models.RecurringPattern {
	patterns, err := suite.detector.Patterns(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	return patterns
}

func (suite *TestSuiteStandard) TestSalary() {
	salary := suite.category("Salary", true)
	suite.monthly("Salary Inc.", 6, 15000, models.TransactionTypeIncome, &salary)

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{Detected: 1}, result)

	patterns := suite.patterns()
	suite.Require().Len(patterns, 1)
	p := patterns[0]

	suite.Assert().Equal(recurring.Key("Salary Inc."), p.Description)
	suite.Assert().Equal(models.FrequencyMonthly, p.Frequency)
	suite.Assert().True(decimal.NewFromInt(15000).Equal(p.ExpectedAmount), p.ExpectedAmount.String())
	suite.Assert().GreaterOrEqual(p.Confidence, 0.90)
	suite.Assert().Equal(models.TransactionTypeIncome, p.Type)
	suite.Assert().Equal(6, p.Occurrences)
	suite.Assert().Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), p.LastObserved)
	suite.Assert().Equal(p.LastObserved.AddDate(0, 0, 30), p.NextExpected)
	suite.Require().NotNil(p.CategoryID)
	suite.Assert().Equal(salary, *p.CategoryID)
	suite.Require().NotNil(p.AccountID)
	suite.Assert().Equal(suite.account.ID, *p.AccountID)
}

func (suite *TestSuiteStandard) TestGroupsByNormalizedDescription() {
	for i, d := range []string{"Netflix", "NETFLIX ", " netflix"} {
		suite.transaction(d, time.Date(2024, time.Month(4+i), 3, 0, 0, 0, 0, time.UTC), 50, models.TransactionTypeExpense, nil)
	}

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(1, result.Detected)
	suite.Assert().Equal(3, suite.patterns()[0].Occurrences)
}

func (suite *TestSuiteStandard) TestMinimumObservations() {
	// Two monthly payments are not enough
	suite.monthly("Gym", 2, 200, models.TransactionTypeExpense, nil)

	// Two yearly ones are
	suite.transaction("Car Insurance", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), 3000, models.TransactionTypeExpense, nil)
	suite.transaction("Car Insurance", time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), 3200, models.TransactionTypeExpense, nil)

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(1, result.Detected)

	patterns := suite.patterns()
	suite.Require().Len(patterns, 1)
	suite.Assert().Equal(recurring.Key("Car Insurance"), patterns[0].Description)
	suite.Assert().Equal(models.FrequencyYearly, patterns[0].Frequency)
	suite.Assert().True(decimal.NewFromInt(3100).Equal(patterns[0].ExpectedAmount))
}

func (suite *TestSuiteStandard) TestConfidenceFloor() {
	// Regular, but stopped months ago
	for _, month := range []time.Month{1, 2, 3} {
		suite.transaction("Old Subscription", time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC), 30, models.TransactionTypeExpense, nil)
	}

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{}, result)
	suite.Assert().Empty(suite.patterns())
}

func (suite *TestSuiteStandard) TestNoBucket() {
	for _, day := range []int{1, 46, 91} {
		suite.transaction("Dentist", time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC), 400, models.TransactionTypeExpense, nil)
	}

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{}, result)
}

func (suite *TestSuiteStandard) TestTransfersIgnored() {
	suite.monthly("Isracard", 6, 2500, models.TransactionTypeTransfer, nil)

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{}, result)
}

func (suite *TestSuiteStandard) TestCategoryMatchesDirection() {
	bonus := suite.category("Bonus", true)
	housing := suite.category("Housing", false)

	// Mostly miscategorized as income, the only expense category wins
	suite.transaction("Rent", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 6000, models.TransactionTypeExpense, &bonus)
	suite.transaction("Rent", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 6000, models.TransactionTypeExpense, &bonus)
	suite.transaction("Rent", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 6000, models.TransactionTypeExpense, &bonus)
	suite.transaction("Rent", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 6000, models.TransactionTypeExpense, &housing)

	_, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)

	patterns := suite.patterns()
	suite.Require().Len(patterns, 1)
	suite.Require().NotNil(patterns[0].CategoryID)
	suite.Assert().Equal(housing, *patterns[0].CategoryID)
}

func (suite *TestSuiteStandard) TestNoMatchingCategory() {
	bonus := suite.category("Bonus", true)
	suite.monthly("Electricity", 4, 350, models.TransactionTypeExpense, &bonus)

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(1, result.Detected)

	patterns := suite.patterns()
	suite.Require().Len(patterns, 1)
	suite.Assert().Nil(patterns[0].CategoryID)
	suite.Assert().NotNil(patterns[0].AccountID)
}

func (suite *TestSuiteStandard) TestRedetectionUpdates() {
	suite.monthly("Salary Inc.", 5, 15000, models.TransactionTypeIncome, nil)

	first, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{Detected: 1}, first)
	id := suite.patterns()[0].ID

	// Age the row so that the refresh is distinguishable from the insert
	suite.Require().NoError(suite.db.Model(&models.RecurringPattern{}).
		Where("household_id = ?", suite.household.ID).
		UpdateColumn("created_at", now.Add(-24*time.Hour)).Error)

	suite.transaction("Salary Inc.", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 16000, models.TransactionTypeIncome, nil)

	second, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{Updated: 1}, second)

	patterns := suite.patterns()
	suite.Require().Len(patterns, 1)
	suite.Assert().Equal(id, patterns[0].ID)
	suite.Assert().Equal(6, patterns[0].Occurrences)
	suite.Assert().Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), patterns[0].LastObserved)
}

func (suite *TestSuiteStandard) TestLookback() {
	// Twenty months of rent, only the last twelve are inside the window
	first := time.Date(2022, 11, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		suite.transaction("Rent", first.AddDate(0, i, 0), 6000, models.TransactionTypeExpense, nil)
	}

	result, err := suite.detector.Detect(context.Background(), suite.household.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{Detected: 1}, result)

	patterns := suite.patterns()
	suite.Require().Len(patterns, 1)
	suite.Assert().Equal(recurring.Lookback, patterns[0].Occurrences)
	suite.Assert().Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), patterns[0].LastObserved)
}

func (suite *TestSuiteStandard) TestHouseholdsAreSeparate() {
	suite.monthly("Salary Inc.", 6, 15000, models.TransactionTypeIncome, nil)

	other := test.Household(suite.T(), suite.db, "Mizrahi")
	result, err := suite.detector.Detect(context.Background(), other.ID)
	suite.Require().NoError(err)
	suite.Assert().Equal(recurring.Result{}, result)
}

func (suite *TestSuiteStandard) TestConcurrentDetection() {
	suite.monthly("Salary Inc.", 6, 15000, models.TransactionTypeIncome, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.detector.Detect(context.Background(), suite.household.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		suite.Assert().NoError(err)
	}
	suite.Assert().Len(suite.patterns(), 1)
}
