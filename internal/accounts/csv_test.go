package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/atm/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accts := []model.Account{
		{ID: model.AccountID{Routing: 12345678, Number: 1234}, OwnerName: "Sam Sepiol", Balance: decimal.RequireFromString("300.30")},
		{ID: model.AccountID{Routing: 1111, Number: 2222}, OwnerName: "Smith, Alice", Balance: decimal.Zero},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range accts {
		assert.Equal(t, accts[i].ID, got[i].ID)
		assert.Equal(t, accts[i].OwnerName, got[i].OwnerName)
		assert.True(t, accts[i].Balance.Equal(got[i].Balance), "balance row %d", i)
	}
}

func TestWriteAccounts_Format(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAccounts(&buf, []model.Account{
		{ID: model.AccountID{Routing: 1234, Number: 5678}, OwnerName: "Bob", Balance: decimal.RequireFromString("30")},
	})
	require.NoError(t, err)
	assert.Equal(t, Header+"\n1234,5678,Bob,30.00\n", buf.String())
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ReadAccounts(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadAccounts_BlankBalance(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(Header + "\n1,2,Zero,\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Balance.IsZero())
}

func TestReadAccounts_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad routing", "x,2,Bob,1.00", "parsing routing_number"},
		{"bad number", "1,y,Bob,1.00", "parsing account_number"},
		{"bad balance", "1,2,Bob,lots", "parsing balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAccounts(strings.NewReader(Header + "\n" + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 2")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadAccounts_WrongFieldCount(t *testing.T) {
	_, err := ReadAccounts(strings.NewReader(Header + "\n1,2,Bob\n"))
	assert.Error(t, err)
}

func TestUnmarshalAccount_BadFieldCount(t *testing.T) {
	_, err := UnmarshalAccount([]string{"1", "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 fields")
}
