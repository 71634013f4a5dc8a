package isracard

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type header struct {
	Status string `json:"Status"`
}

type validateRequest struct {
	ID          string `json:"id"`
	CardSuffix  string `json:"cardSuffix"`
	CountryCode string `json:"countryCode"`
	IDType      string `json:"idType"`
	CheckLevel  string `json:"checkLevel"`
	CompanyCode string `json:"companyCode"`
}

type validateResponse struct {
	Header             header `json:"Header"`
	ValidateIDDataBean *struct {
		ReturnCode string `json:"returnCode"`
		UserName   string `json:"userName"`
	} `json:"ValidateIdDataBean"`
}

type logonRequest struct {
	UserName    string `json:"KodMishtamesh"`
	ID          string `json:"MisparZihuy"`
	Password    string `json:"Sisma"`
	CardSuffix  string `json:"cardSuffix"`
	CountryCode string `json:"countryCode"`
	IDType      string `json:"idType"`
}

type logonResponse struct {
	Status string `json:"status"`
}

// monthResponse carries one bean entry per card, keyed "Index0", "Index1", ...
type monthResponse struct {
	Header header                     `json:"Header"`
	Bean   map[string]json.RawMessage `json:"CardsTransactionsListBean"`
}

type cardTransactions struct {
	CurrentCardTransactions []transactionGroups `json:"CurrentCardTransactions"`
}

type transactionGroups struct {
	Domestic []rawTxn `json:"txnIsrael"`
	Abroad   []rawTxn `json:"txnAbroad"`
}

type rawTxn struct {
	DealSumType string `json:"dealSumType"`
	MoreInfo    string `json:"moreInfo"`

	FullPurchaseDate    string              `json:"fullPurchaseDate"`
	FullPaymentDate     string              `json:"fullPaymentDate"`
	FullSupplierNameHeb string              `json:"fullSupplierNameHeb"`
	DealSum             decimal.NullDecimal `json:"dealSum"`
	PaymentSum          decimal.NullDecimal `json:"paymentSum"`
	CurrencyID          string              `json:"currencyId"`
	VoucherNumberRatz   string              `json:"voucherNumberRatz"`

	FullPurchaseDateOutbound  string              `json:"fullPurchaseDateOutbound"`
	FullSupplierNameOutbound  string              `json:"fullSupplierNameOutbound"`
	DealSumOutbound           decimal.NullDecimal `json:"dealSumOutbound"`
	PaymentSumOutbound        decimal.NullDecimal `json:"paymentSumOutbound"`
	CurrentPaymentCurrency    string              `json:"currentPaymentCurrency"`
	VoucherNumberRatzOutbound string              `json:"voucherNumberRatzOutbound"`
}

func (t rawTxn) outbound() bool {
	return t.DealSumOutbound.Valid && !t.DealSumOutbound.Decimal.IsZero()
}
