//go:build !integration

package model_test

import (
	"testing"
	"time"

	"translator-booking/internal/domain/model"
)

func TestJobStatusPredicates(t *testing.T) {
	cases := []struct {
		status         model.JobStatus
		terminal       bool
		reopenable     bool
		active         bool
		allowsAssignee bool
	}{
		{model.JobStatusCreated, false, false, false, false},
		{model.JobStatusOpen, false, false, false, false},
		{model.JobStatusAssigned, false, false, true, true},
		{model.JobStatusInProgress, false, false, true, true},
		{model.JobStatusCompleted, true, false, false, true},
		{model.JobStatusCancelled, true, true, false, false},
		{model.JobStatusNoShow, true, true, false, false},
		{model.JobStatusFlagged, false, false, false, false},
	}
	for _, c := range cases {
		if got := c.status.IsTerminal(); got != c.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", c.status, got, c.terminal)
		}
		if got := c.status.Reopenable(); got != c.reopenable {
			t.Errorf("%s.Reopenable() = %v, want %v", c.status, got, c.reopenable)
		}
		if got := c.status.Active(); got != c.active {
			t.Errorf("%s.Active() = %v, want %v", c.status, got, c.active)
		}
		if got := c.status.AllowsAssignee(); got != c.allowsAssignee {
			t.Errorf("%s.AllowsAssignee() = %v, want %v", c.status, got, c.allowsAssignee)
		}
	}
}

func TestJobInvariant(t *testing.T) {
	tr := "tr-1"

	t.Run("assignee must match status", func(t *testing.T) {
		ok := []*model.Job{
			{Status: model.JobStatusOpen},
			{Status: model.JobStatusAssigned, AssignedTranslatorID: &tr},
			{Status: model.JobStatusInProgress, AssignedTranslatorID: &tr},
			{Status: model.JobStatusCompleted, AssignedTranslatorID: &tr},
			{Status: model.JobStatusCancelled},
			{Status: model.JobStatusNoShow},
		}
		for _, j := range ok {
			if !j.InvariantOK() {
				t.Errorf("InvariantOK() = false for %s with assignee %v", j.Status, j.AssignedTranslatorID)
			}
		}
		bad := []*model.Job{
			{Status: model.JobStatusOpen, AssignedTranslatorID: &tr},
			{Status: model.JobStatusAssigned},
			{Status: model.JobStatusCancelled, AssignedTranslatorID: &tr},
			{Status: model.JobStatusNoShow, AssignedTranslatorID: &tr},
		}
		for _, j := range bad {
			if j.InvariantOK() {
				t.Errorf("InvariantOK() = true for %s with assignee %v", j.Status, j.AssignedTranslatorID)
			}
		}
	})
}

func TestNewJobID(t *testing.T) {
	a := model.NewJobID()
	time.Sleep(2 * time.Millisecond)
	b := model.NewJobID()
	if a == b {
		t.Fatal("consecutive ids must differ")
	}
	if len(a) != 26 {
		t.Fatalf("id length = %d, want 26", len(a))
	}
	// ULIDs embed the timestamp, which the creation-order listings rely on.
	if !(a < b) {
		t.Fatalf("ids must sort by creation time: %s then %s", a, b)
	}
}
