package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validationErr(field, fmt.Sprintf("expected %s date", dateLayout))
	}
	return t, nil
}

func intToDecimal(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
