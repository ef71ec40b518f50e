package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/repos/testutil"
	"github.com/yungbote/studyplan-backend/internal/types"
)

func strPtr(s string) *string { return &s }

func TestScheduledPlanRepoRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	studentRepo := repos.NewStudentRepo(db, log)
	groupRepo := repos.NewPlanGroupRepo(db, log)
	planRepo := repos.NewScheduledPlanRepo(db, log)

	ctx := context.Background()
	student, err := studentRepo.Create(ctx, tx, &types.Student{Name: "test student"})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	group, err := groupRepo.Create(ctx, tx, &types.PlanGroup{
		StudentID: student.ID,
		StartDate: "2026-03-02",
		TotalDays: 14,
	})
	if err != nil {
		t.Fatalf("create plan group: %v", err)
	}

	rows := []*types.ScheduledPlan{
		{
			StudentID:   student.ID,
			PlanGroupID: group.ID,
			Date:        "2026-03-02",
			ContentType: "book",
			StartRange:  1,
			EndRange:    11,
			StartTime:   strPtr("09:00"),
			EndTime:     strPtr("10:00"),
			Sequence:    0,
		},
		{
			StudentID:   student.ID,
			PlanGroupID: group.ID,
			Date:        "2026-03-02",
			ContentType: "lecture",
			StartTime:   strPtr("10:00"),
			EndTime:     strPtr("11:00"),
			Sequence:    1,
		},
	}
	created, err := planRepo.CreateBatch(ctx, tx, rows)
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d rows", len(created))
	}

	byDate, err := planRepo.GetByStudentAndDate(ctx, tx, student.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("get by date: %v", err)
	}
	if len(byDate) != 2 {
		t.Fatalf("got %d rows for date", len(byDate))
	}
	if byDate[0].Sequence != 0 || byDate[1].Sequence != 1 {
		t.Fatalf("rows out of order: %v %v", byDate[0].Sequence, byDate[1].Sequence)
	}

	if err := planRepo.UpdateTimes(ctx, tx, created[0].ID, "11:00", "12:00"); err != nil {
		t.Fatalf("update times: %v", err)
	}
	updated, err := planRepo.GetByID(ctx, tx, created[0].ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if updated.StartTime == nil || *updated.StartTime != "11:00" {
		t.Fatalf("start time = %v", updated.StartTime)
	}

	if err := planRepo.DeleteByGroupID(ctx, tx, group.ID); err != nil {
		t.Fatalf("delete by group: %v", err)
	}
	remaining, err := planRepo.GetByGroupID(ctx, tx, group.ID)
	if err != nil {
		t.Fatalf("get by group: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("%d rows survived delete", len(remaining))
	}
}

func TestScheduledPlanRepoEmptyInputs(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	planRepo := repos.NewScheduledPlanRepo(db, log)

	ctx := context.Background()
	created, err := planRepo.CreateBatch(ctx, nil, nil)
	if err != nil || len(created) != 0 {
		t.Fatalf("empty create = %v, %v", created, err)
	}
	rows, err := planRepo.GetByStudentAndDate(ctx, nil, uuid.Nil, "2026-03-02")
	if err != nil || len(rows) != 0 {
		t.Fatalf("nil student = %v, %v", rows, err)
	}
}
