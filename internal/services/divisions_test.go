package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeDivisions(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		members []MemberShare
		want    []string
	}{
		{
			name:   "equal split",
			amount: "100.00",
			members: []MemberShare{
				{UserID: 1, DivisionPercent: dec("50")},
				{UserID: 2, DivisionPercent: dec("50")},
			},
			want: []string{"50.00", "50.00"},
		},
		{
			name:   "uneven custom split",
			amount: "100.00",
			members: []MemberShare{
				{UserID: 1, DivisionPercent: dec("70")},
				{UserID: 2, DivisionPercent: dec("30")},
			},
			want: []string{"70.00", "30.00"},
		},
		{
			name:   "rounding remainder goes to first member",
			amount: "100.00",
			members: []MemberShare{
				{UserID: 1, DivisionPercent: dec("33.33")},
				{UserID: 2, DivisionPercent: dec("33.33")},
				{UserID: 3, DivisionPercent: dec("33.33")},
			},
			want: []string{"33.34", "33.33", "33.33"},
		},
		{
			name:   "negative remainder subtracted from first member",
			amount: "0.01",
			members: []MemberShare{
				{UserID: 1, DivisionPercent: dec("50")},
				{UserID: 2, DivisionPercent: dec("50")},
			},
			want: []string{"0.00", "0.01"},
		},
		{
			name:   "indivisible cent",
			amount: "0.05",
			members: []MemberShare{
				{UserID: 1, DivisionPercent: dec("33.33")},
				{UserID: 2, DivisionPercent: dec("33.33")},
				{UserID: 3, DivisionPercent: dec("33.34")},
			},
			want: []string{"0.01", "0.02", "0.02"},
		},
		{
			name:   "micro amount across four members",
			amount: "0.02",
			members: []MemberShare{
				{UserID: 1, DivisionPercent: dec("25")},
				{UserID: 2, DivisionPercent: dec("25")},
				{UserID: 3, DivisionPercent: dec("25")},
				{UserID: 4, DivisionPercent: dec("25")},
			},
			// each share rounds up to a cent, so the correction drives
			// the first share negative while the sum stays exact
			want: []string{"-0.01", "0.01", "0.01", "0.01"},
		},
		{
			name:    "no members",
			amount:  "250.00",
			members: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := dec(tt.amount)
			got := ComputeDivisions(amount, tt.members)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d divisions, want %d", len(got), len(tt.want))
			}

			total := decimal.Zero
			for i, div := range got {
				if div.Amount.StringFixed(2) != tt.want[i] {
					t.Errorf("division[%d] = %s, want %s", i, div.Amount.StringFixed(2), tt.want[i])
				}
				if div.UserID != tt.members[i].UserID {
					t.Errorf("division[%d] user = %d, want %d", i, div.UserID, tt.members[i].UserID)
				}
				if !div.Percentage.Equal(tt.members[i].DivisionPercent) {
					t.Errorf("division[%d] percentage = %s, want %s", i, div.Percentage, tt.members[i].DivisionPercent)
				}
				total = total.Add(div.Amount)
			}

			if len(got) > 0 && !total.Equal(amount) {
				t.Errorf("divisions sum to %s, want exactly %s", total, amount)
			}
		})
	}
}

func TestComputeDivisionsSumInvariant(t *testing.T) {
	members := []MemberShare{
		{UserID: 1, DivisionPercent: dec("33.33")},
		{UserID: 2, DivisionPercent: dec("33.33")},
		{UserID: 3, DivisionPercent: dec("33.34")},
	}

	for _, amount := range []string{"0.01", "0.03", "1.00", "9.99", "100.00", "123.45", "99999.97"} {
		a := dec(amount)
		total := decimal.Zero
		for _, div := range ComputeDivisions(a, members) {
			total = total.Add(div.Amount)
		}
		if !total.Equal(a) {
			t.Errorf("amount %s: divisions sum to %s", amount, total)
		}
	}
}

func TestComputePendingBalances(t *testing.T) {
	tests := []struct {
		name      string
		divisions []UnpaidDivision
		want      []PendingBalance
	}{
		{
			name: "single direction",
			divisions: []UnpaidDivision{
				{UserID: 1, PayerID: 2, Amount: dec("30.00")},
				{UserID: 1, PayerID: 2, Amount: dec("20.00")},
			},
			want: []PendingBalance{
				{FromUserID: 1, ToUserID: 2, Amount: dec("50.00")},
			},
		},
		{
			name: "mutual debts offset",
			divisions: []UnpaidDivision{
				{UserID: 1, PayerID: 2, Amount: dec("75.00")},
				{UserID: 2, PayerID: 1, Amount: dec("20.00")},
			},
			want: []PendingBalance{
				{FromUserID: 1, ToUserID: 2, Amount: dec("55.00")},
			},
		},
		{
			name: "equal mutual debts cancel out",
			divisions: []UnpaidDivision{
				{UserID: 1, PayerID: 2, Amount: dec("40.00")},
				{UserID: 2, PayerID: 1, Amount: dec("40.00")},
			},
			want: []PendingBalance{},
		},
		{
			name: "paid and self divisions ignored",
			divisions: []UnpaidDivision{
				{UserID: 1, PayerID: 2, Amount: dec("10.00"), IsPaid: true},
				{UserID: 2, PayerID: 2, Amount: dec("99.00")},
				{UserID: 1, PayerID: 2, Amount: dec("15.00")},
			},
			want: []PendingBalance{
				{FromUserID: 1, ToUserID: 2, Amount: dec("15.00")},
			},
		},
		{
			name:      "empty input",
			divisions: nil,
			want:      []PendingBalance{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePendingBalances(tt.divisions)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].FromUserID != tt.want[i].FromUserID ||
					got[i].ToUserID != tt.want[i].ToUserID ||
					!got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("balance[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestComputePendingBalancesStableOrder(t *testing.T) {
	divisions := []UnpaidDivision{
		{UserID: 3, PayerID: 4, Amount: dec("5.00")},
		{UserID: 1, PayerID: 2, Amount: dec("10.00")},
	}

	got := ComputePendingBalances(divisions)
	if len(got) != 2 {
		t.Fatalf("got %d balances, want 2", len(got))
	}
	if got[0].FromUserID != 1 || got[1].FromUserID != 3 {
		t.Errorf("balances not ordered by debtor: %+v", got)
	}
}
