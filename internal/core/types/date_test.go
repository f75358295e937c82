package types

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareDates(t *testing.T) {
	dates := []string{"15/03/2024", "invalid", "02/01/2024", "01/12/2023"}

	sort.SliceStable(dates, func(i, j int) bool {
		return CompareDates(dates[i], dates[j]) < 0
	})

	assert.Equal(t, []string{"01/12/2023", "02/01/2024", "15/03/2024", "invalid"}, dates)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "05/03/2024", FormatDate(d))
	assert.True(t, IsDate("31/12/2024"))
	assert.False(t, IsDate("2024-12-31"))
}

func TestNewMoneyFromString_Comma(t *testing.T) {
	m, err := NewMoneyFromString("1234,50")

	assert.NoError(t, err)
	assert.True(t, MustMoney("1234.5").Equal(m))
}
