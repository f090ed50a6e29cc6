package fsm

import "testing"

func TestProjectCanTransition(t *testing.T) {
	if !ProjectCanTransition(ProjectDraft, ProjectSent) {
		t.Fatal("expected draft -> sent to be allowed")
	}
	if !ProjectCanTransition(ProjectSent, ProjectAccepted) {
		t.Fatal("expected sent -> accepted to be allowed")
	}
	if !ProjectCanTransition(ProjectAccepted, ProjectInProgress) {
		t.Fatal("expected accepted -> in_progress to be allowed")
	}
	if !ProjectCanTransition(ProjectInProgress, ProjectCompleted) {
		t.Fatal("expected in_progress -> completed to be allowed")
	}
	if !ProjectCanTransition(ProjectCompleted, ProjectInProgress) {
		t.Fatal("expected completed -> in_progress (reopen) to be allowed")
	}
	if ProjectCanTransition(ProjectDraft, ProjectAccepted) {
		t.Fatal("unexpected draft -> accepted allowed")
	}
	if ProjectCanTransition(ProjectSent, ProjectSent) {
		t.Fatal("self transition sent -> sent must be rejected")
	}
	if ProjectCanTransition(ProjectDeclined, ProjectSent) {
		t.Fatal("declined is terminal")
	}
	if ProjectCanTransition(ProjectCancelled, ProjectDraft) {
		t.Fatal("cancelled is terminal")
	}
	if ProjectCanTransition(ProjectCompleted, ProjectCancelled) {
		t.Fatal("completed projects cannot be cancelled")
	}
}

func TestProjectCancellableStates(t *testing.T) {
	for _, from := range []string{ProjectDraft, ProjectSent, ProjectAccepted, ProjectInProgress} {
		if !ProjectCanTransition(from, ProjectCancelled) {
			t.Fatalf("expected %s -> cancelled to be allowed", from)
		}
	}
}

func TestProjectCanBeInvoiced(t *testing.T) {
	cases := map[string]bool{
		ProjectDraft:      false,
		ProjectSent:       false,
		ProjectAccepted:   true,
		ProjectInProgress: true,
		ProjectCompleted:  true,
		ProjectDeclined:   false,
		ProjectCancelled:  false,
	}
	for status, want := range cases {
		if got := ProjectCanBeInvoiced(status); got != want {
			t.Fatalf("ProjectCanBeInvoiced(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestInvoiceCanTransition(t *testing.T) {
	if !InvoiceCanTransition(InvoiceDraft, InvoiceSent) {
		t.Fatal("expected draft -> sent to be allowed")
	}
	if !InvoiceCanTransition(InvoiceSent, InvoicePaid) {
		t.Fatal("expected sent -> paid to be allowed")
	}
	if !InvoiceCanTransition(InvoiceSent, InvoiceOverdue) {
		t.Fatal("expected sent -> overdue to be allowed")
	}
	if !InvoiceCanTransition(InvoiceOverdue, InvoicePaid) {
		t.Fatal("expected overdue -> paid to be allowed")
	}
	if InvoiceCanTransition(InvoiceDraft, InvoicePaid) {
		t.Fatal("draft invoices cannot be marked paid")
	}
	if InvoiceCanTransition(InvoicePaid, InvoiceSent) {
		t.Fatal("paid is terminal")
	}
	if InvoiceCanTransition(InvoiceCancelled, InvoiceSent) {
		t.Fatal("cancelled is terminal")
	}
	if InvoiceCanTransition(InvoiceSent, InvoiceSent) {
		t.Fatal("self transition must be rejected")
	}
}

func TestExhaustiveRejections(t *testing.T) {
	statuses := []string{ProjectDraft, ProjectSent, ProjectAccepted, ProjectDeclined, ProjectInProgress, ProjectCompleted, ProjectCancelled}
	allowed := map[[2]string]bool{
		{ProjectDraft, ProjectSent}:           true,
		{ProjectDraft, ProjectCancelled}:      true,
		{ProjectSent, ProjectAccepted}:        true,
		{ProjectSent, ProjectDeclined}:        true,
		{ProjectSent, ProjectCancelled}:       true,
		{ProjectAccepted, ProjectInProgress}:  true,
		{ProjectAccepted, ProjectCancelled}:   true,
		{ProjectInProgress, ProjectCompleted}: true,
		{ProjectInProgress, ProjectCancelled}: true,
		{ProjectCompleted, ProjectInProgress}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			if got := ProjectCanTransition(from, to); got != want {
				t.Fatalf("ProjectCanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}
