package services

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MemberShare is a group member's percentage stake, in canonical group
// member order.
type MemberShare struct {
	UserID          int
	DivisionPercent decimal.Decimal
}

// DivisionShare is one member's computed share of a transaction amount.
type DivisionShare struct {
	UserID     int
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// ComputeDivisions splits amount across members by their percentages,
// rounding each share to 2 decimal places. Any rounding remainder is
// added to the FIRST member so the shares always sum to amount exactly.
// Percentages are not validated to sum to 100; that is the group
// management layer's precondition. An empty member list yields an
// empty result. For micro amounts split across three or more members
// the correction can push the first share negative; the exact-sum
// invariant still holds.
func ComputeDivisions(amount decimal.Decimal, members []MemberShare) []DivisionShare {
	divisions := make([]DivisionShare, 0, len(members))

	for _, member := range members {
		share := amount.Mul(member.DivisionPercent).Div(hundred).Round(2)
		divisions = append(divisions, DivisionShare{
			UserID:     member.UserID,
			Amount:     share,
			Percentage: member.DivisionPercent,
		})
	}

	if len(divisions) == 0 {
		return divisions
	}

	total := decimal.Zero
	for _, div := range divisions {
		total = total.Add(div.Amount)
	}

	remainder := amount.Sub(total).Round(2)
	if !remainder.IsZero() {
		divisions[0].Amount = divisions[0].Amount.Add(remainder)
	}

	return divisions
}

// UnpaidDivision is the slice of a division needed for pairwise netting:
// who owes it, who paid the parent transaction, and how much.
type UnpaidDivision struct {
	UserID  int
	PayerID int
	Amount  decimal.Decimal
	IsPaid  bool
}

// PendingBalance is a single directional debt after netting mutual
// amounts between a pair of users.
type PendingBalance struct {
	FromUserID int             `json:"from_user_id"`
	ToUserID   int             `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// ComputePendingBalances aggregates unpaid divisions into per-pair
// debts and offsets mutual debts down to one direction. Paid divisions
// and a payer's own share are skipped. Zero nets are dropped. Output is
// ordered by (from, to) so callers get a stable listing.
func ComputePendingBalances(divisions []UnpaidDivision) []PendingBalance {
	type pair struct {
		debtor   int
		creditor int
	}

	debts := make(map[pair]decimal.Decimal)
	for _, div := range divisions {
		if div.IsPaid {
			continue
		}
		if div.UserID == div.PayerID {
			continue
		}

		key := pair{debtor: div.UserID, creditor: div.PayerID}
		debts[key] = debts[key].Add(div.Amount)
	}

	result := make([]PendingBalance, 0, len(debts))
	processed := make(map[pair]bool)

	for key, amount := range debts {
		reverseKey := pair{debtor: key.creditor, creditor: key.debtor}
		if processed[key] || processed[reverseKey] {
			continue
		}

		reverseAmount := debts[reverseKey]
		switch {
		case amount.GreaterThan(reverseAmount):
			result = append(result, PendingBalance{
				FromUserID: key.debtor,
				ToUserID:   key.creditor,
				Amount:     amount.Sub(reverseAmount),
			})
		case reverseAmount.GreaterThan(amount):
			result = append(result, PendingBalance{
				FromUserID: key.creditor,
				ToUserID:   key.debtor,
				Amount:     reverseAmount.Sub(amount),
			})
		}

		processed[key] = true
		processed[reverseKey] = true
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].FromUserID != result[j].FromUserID {
			return result[i].FromUserID < result[j].FromUserID
		}
		return result[i].ToUserID < result[j].ToUserID
	})

	return result
}
