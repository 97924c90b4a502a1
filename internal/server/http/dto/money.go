package dto

import "github.com/baabuu/storefront/internal/domain/model"

// FormatMoney renders an amount in major units with two decimal places,
// e.g. 135000 paise as "1350.00".
func FormatMoney(m model.Money) string {
	return m.Decimal().StringFixed(2)
}
