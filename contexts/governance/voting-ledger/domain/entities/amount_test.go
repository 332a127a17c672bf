package entities

import (
	"encoding/json"
	"errors"
	"testing"

	domainerrors "blockvote/contexts/governance/voting-ledger/domain/errors"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestAmountAddDetectsOverflow(t *testing.T) {
	max := MustParseAmount(maxUint256)
	if _, err := max.Add(NewAmount(1)); !errors.Is(err, domainerrors.ErrAmountOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	sum, err := NewAmount(40).Add(NewAmount(2))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if sum.String() != "42" {
		t.Fatalf("expected 42, got %s", sum)
	}
}

func TestAmountSubDetectsUnderflow(t *testing.T) {
	if _, err := NewAmount(1).Sub(NewAmount(2)); !errors.Is(err, domainerrors.ErrAmountUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
	diff, err := NewAmount(100).Sub(NewAmount(40))
	if err != nil {
		t.Fatalf("sub failed: %v", err)
	}
	if diff.Cmp(NewAmount(60)) != 0 {
		t.Fatalf("expected 60, got %s", diff)
	}
}

func TestAmountDivTruncates(t *testing.T) {
	if got := NewAmount(25).Div(NewAmount(10)); got.String() != "2" {
		t.Fatalf("expected 2, got %s", got)
	}
	if got := NewAmount(25).Div(Amount{}); !got.IsZero() {
		t.Fatalf("expected zero for zero divisor, got %s", got)
	}
}

func TestParseAmountRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "  ", "-1", "+5", "-0", "1.5", "abc", "0x10", "1e3", "1 000"} {
		if _, err := ParseAmount(raw); !errors.Is(err, domainerrors.ErrInvalidAmount) {
			t.Fatalf("expected invalid amount for %q, got %v", raw, err)
		}
	}
	if got := MustParseAmount(" 007 "); got.String() != "7" {
		t.Fatalf("expected 7, got %s", got)
	}
}

func TestAmountJSONUsesDecimalStrings(t *testing.T) {
	payload, err := json.Marshal(struct {
		Balance Amount `json:"balance"`
	}{Balance: MustParseAmount(maxUint256)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(payload) != `{"balance":"`+maxUint256+`"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	var decoded struct {
		FromString Amount `json:"from_string"`
		FromNumber Amount `json:"from_number"`
	}
	if err := json.Unmarshal([]byte(`{"from_string":"500","from_number":25}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.FromString.String() != "500" || decoded.FromNumber.String() != "25" {
		t.Fatalf("unexpected decoded amounts %s %s", decoded.FromString, decoded.FromNumber)
	}
	if err := json.Unmarshal([]byte(`{"from_string":"-5"}`), &decoded); err == nil {
		t.Fatal("expected negative amount to be rejected")
	}
}

func TestElectionWindowElapsed(t *testing.T) {
	election := Election{Status: ElectionStatusActive}
	election.EndTime = election.StartTime.Add(10)
	if election.WindowElapsed(election.StartTime) {
		t.Fatal("window should still be open at start")
	}
	if !election.WindowElapsed(election.EndTime) {
		t.Fatal("window should be elapsed at end time")
	}
	election.Status = ElectionStatusEnded
	if election.WindowElapsed(election.EndTime) {
		t.Fatal("ended elections never report an elapsed window")
	}
}
