package onezero

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type identityResponse[T any] struct {
	ResultData T `json:"resultData"`
}

type deviceTokenRequest struct {
	ExtClientID string `json:"extClientId"`
	OS          string `json:"os"`
}

type prepareOTPRequest struct {
	FactorValue string `json:"factorValue"`
	DeviceToken string `json:"deviceToken"`
	OTPChannel  string `json:"otpChannel"`
}

type verifyOTPRequest struct {
	OTPContext string `json:"otpContext"`
	OTPCode    string `json:"otpCode"`
}

type idTokenRequest struct {
	OTPSmsToken string `json:"otpSmsToken"`
	Email       string `json:"email"`
	Pass        string `json:"pass"`
	PinCode     string `json:"pinCode"`
}

type sessionTokenRequest struct {
	IDToken string `json:"idToken"`
	Pass    string `json:"pass"`
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type customerData struct {
	Customer struct {
		CustomerID string `json:"customerId"`
		Portfolios []struct {
			PortfolioID  string `json:"portfolioId"`
			PortfolioNum string `json:"portfolioNum"`
			Accounts     []struct {
				AccountID string `json:"accountId"`
			} `json:"accounts"`
		} `json:"portfolios"`
	} `json:"customer"`
}

type movementsData struct {
	Movements struct {
		Movements  []movement `json:"movements"`
		Pagination struct {
			Cursor  *string `json:"cursor"`
			HasMore bool    `json:"hasMore"`
		} `json:"pagination"`
	} `json:"movements"`
}

type movement struct {
	MovementID        string          `json:"movementId"`
	ValueDate         string          `json:"valueDate"`
	MovementTimestamp string          `json:"movementTimestamp"`
	MovementAmount    decimal.Decimal `json:"movementAmount"`
	MovementCurrency  string          `json:"movementCurrency"`
	CreditDebit       string          `json:"creditDebit"`
	Description       string          `json:"description"`
}

const customerQuery = `query GetCustomer {
  customer {
    __typename
    customerId
    portfolios {
      __typename
      portfolioId
      portfolioNum
      accounts {
        __typename
        accountId
      }
    }
  }
}`

const movementsQuery = `query GetMovements($portfolioId: String!, $accountId: String!, $pagination: PaginationInput!, $language: BffLanguage!) {
  movements(portfolioId: $portfolioId, accountId: $accountId, pagination: $pagination, language: $language) {
    __typename
    movements {
      __typename
      movementId
      valueDate
      movementTimestamp
      movementAmount
      movementCurrency
      creditDebit
      description
    }
    pagination {
      __typename
      cursor
      hasMore
    }
  }
}`
