package signaling

import "testing"

func TestLedger_StartCallMarksBothBusy(t *testing.T) {
	l := NewLedger()

	if l.IsBusy("alice") || l.IsBusy("bob") {
		t.Fatalf("fresh ledger should be idle")
	}

	l.StartCall("alice", "bob", "conn-a")

	if !l.IsBusy("alice") {
		t.Fatalf("alice should be busy")
	}
	if !l.IsBusy("bob") {
		t.Fatalf("bob should be busy")
	}
}

func TestLedger_SymmetricStartKeepsConnections(t *testing.T) {
	l := NewLedger()
	l.StartCall("alice", "bob", "conn-a")
	l.StartCall("bob", "alice", "conn-b")

	if l.ActiveCalls() != 2 {
		t.Fatalf("expected two records, got %d", l.ActiveCalls())
	}
	if !l.IsBusy("alice") || !l.IsBusy("bob") {
		t.Fatalf("both sides should be busy")
	}
}

func TestLedger_EndCallClearsBothSides(t *testing.T) {
	l := NewLedger()
	l.StartCall("alice", "bob", "conn-a")
	l.StartCall("bob", "alice", "conn-b")

	l.EndCall("alice")

	if l.IsBusy("alice") || l.IsBusy("bob") {
		t.Fatalf("ending from either side should free both")
	}
	if l.ActiveCalls() != 0 {
		t.Fatalf("expected empty ledger, got %d records", l.ActiveCalls())
	}
}

func TestLedger_EndCallWithoutRecordIsNoop(t *testing.T) {
	l := NewLedger()
	l.EndCall("alice")

	l.StartCall("bob", "carol", "conn-b")
	l.EndCall("alice")
	if !l.IsBusy("bob") || !l.IsBusy("carol") {
		t.Fatalf("unrelated call disturbed by a no-op end")
	}
}

func TestLedger_EndAllForSweepsOrphans(t *testing.T) {
	l := NewLedger()

	// Manufacture a half-open state: bob's record names alice, but alice's
	// own record was overwritten by a newer call and then cleared, so the
	// mirror link back to bob is gone.
	l.StartCall("bob", "alice", "conn-b")
	l.StartCall("alice", "carol", "conn-a")
	l.EndCall("alice")
	if !l.IsBusy("bob") {
		t.Fatalf("precondition: bob should hold an orphaned record")
	}

	l.EndAllFor("alice")

	if l.IsBusy("bob") {
		t.Fatalf("orphaned record naming alice as peer should be swept")
	}
	if l.ActiveCalls() != 0 {
		t.Fatalf("expected empty ledger, got %d records", l.ActiveCalls())
	}
}

func TestLedger_EndAllForLeavesOtherCallsAlone(t *testing.T) {
	l := NewLedger()
	l.StartCall("alice", "bob", "conn-a")
	l.StartCall("bob", "alice", "conn-b")
	l.StartCall("carol", "dave", "conn-c")
	l.StartCall("dave", "carol", "conn-d")

	l.EndAllFor("alice")

	if l.IsBusy("alice") || l.IsBusy("bob") {
		t.Fatalf("alice's call should be fully cleared")
	}
	if !l.IsBusy("carol") || !l.IsBusy("dave") {
		t.Fatalf("carol and dave's call must survive")
	}
}
