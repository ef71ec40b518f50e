package services_test

import (
	"context"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/planner/reorder"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/repos/testutil"
	"github.com/yungbote/studyplan-backend/internal/services"
	"github.com/yungbote/studyplan-backend/internal/types"
	"github.com/yungbote/studyplan-backend/internal/utils"
)

func strPtr(s string) *string { return &s }

func TestTimelineReorderPersists(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	studentRepo := repos.NewStudentRepo(tx, log)
	groupRepo := repos.NewPlanGroupRepo(tx, log)
	planRepo := repos.NewScheduledPlanRepo(tx, log)
	nonStudyRepo := repos.NewNonStudyBlockRepo(tx, log)

	ctx := context.Background()
	student, err := studentRepo.Create(ctx, nil, &types.Student{Name: "timeline student"})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	group, err := groupRepo.Create(ctx, nil, &types.PlanGroup{
		StudentID: student.ID,
		StartDate: "2026-03-02",
		TotalDays: 7,
	})
	if err != nil {
		t.Fatalf("create plan group: %v", err)
	}
	plans, err := planRepo.CreateBatch(ctx, nil, []*types.ScheduledPlan{
		{
			StudentID:    student.ID,
			PlanGroupID:  group.ID,
			Date:         "2026-03-02",
			ContentTitle: "math pages",
			StartTime:    strPtr("09:00"),
			EndTime:      strPtr("10:00"),
		},
		{
			StudentID:    student.ID,
			PlanGroupID:  group.ID,
			Date:         "2026-03-02",
			ContentTitle: "english lecture",
			StartTime:    strPtr("10:00"),
			EndTime:      strPtr("11:00"),
			Sequence:     1,
		},
	})
	if err != nil {
		t.Fatalf("create plans: %v", err)
	}
	block, err := nonStudyRepo.Create(ctx, nil, &types.NonStudyBlock{
		StudentID: student.ID,
		Date:      "2026-03-02",
		Title:     "lunch",
		StartTime: "11:00:00",
		EndTime:   "11:30:00",
	})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}

	svc := services.NewTimelineService(tx, log, utils.DefaultSchedulerConfig(), planRepo, nonStudyRepo)

	items, err := svc.GetDayTimeline(ctx, student.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("timeline has %d items", len(items))
	}
	if items[2].ID != block.ID.String() || items[2].StartTime != "11:00" {
		t.Fatalf("block item = %+v", items[2])
	}

	// moving lunch to the front lands it earlier than its old end, which
	// repacks the whole day from the window start
	ordered := []string{block.ID.String(), plans[0].ID.String(), plans[1].ID.String()}
	summary, err := svc.Reorder(ctx, student.ID, "2026-03-02", ordered, block.ID.String())
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if summary.Mode != reorder.ModePull {
		t.Fatalf("mode = %s", summary.Mode)
	}
	if summary.UpdatedRows != 3 {
		t.Fatalf("updated %d rows", summary.UpdatedRows)
	}
	if summary.Items[0].StartTime != "06:00" || summary.Items[0].EndTime != "06:30" {
		t.Fatalf("first item = %+v", summary.Items[0])
	}

	reloaded, err := planRepo.GetByID(ctx, nil, plans[0].ID)
	if err != nil {
		t.Fatalf("reload plan: %v", err)
	}
	if reloaded.StartTime == nil || *reloaded.StartTime != "06:30" {
		t.Fatalf("plan start = %v", reloaded.StartTime)
	}
	blocks, err := nonStudyRepo.GetByStudentAndDate(ctx, nil, student.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("reload blocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].StartTime != "06:00:00" {
		t.Fatalf("block times = %+v", blocks)
	}
}

func TestTimelineReorderRejectsBadOrdering(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)

	studentRepo := repos.NewStudentRepo(tx, log)
	groupRepo := repos.NewPlanGroupRepo(tx, log)
	planRepo := repos.NewScheduledPlanRepo(tx, log)
	nonStudyRepo := repos.NewNonStudyBlockRepo(tx, log)

	ctx := context.Background()
	student, err := studentRepo.Create(ctx, nil, &types.Student{Name: "bad ordering student"})
	if err != nil {
		t.Fatalf("create student: %v", err)
	}
	group, err := groupRepo.Create(ctx, nil, &types.PlanGroup{
		StudentID: student.ID,
		StartDate: "2026-03-02",
		TotalDays: 7,
	})
	if err != nil {
		t.Fatalf("create plan group: %v", err)
	}
	plans, err := planRepo.CreateBatch(ctx, nil, []*types.ScheduledPlan{{
		StudentID:   student.ID,
		PlanGroupID: group.ID,
		Date:        "2026-03-02",
		StartTime:   strPtr("09:00"),
		EndTime:     strPtr("10:00"),
	}})
	if err != nil {
		t.Fatalf("create plans: %v", err)
	}

	svc := services.NewTimelineService(tx, log, utils.DefaultSchedulerConfig(), planRepo, nonStudyRepo)

	if _, err := svc.Reorder(ctx, student.ID, "2026-03-02", []string{"not-a-real-id"}, plans[0].ID.String()); err == nil {
		t.Fatal("expected unknown entry to fail")
	}
	if _, err := svc.Reorder(ctx, student.ID, "2026-03-09", []string{plans[0].ID.String()}, plans[0].ID.String()); err == nil {
		t.Fatal("expected empty day to fail")
	}
}
