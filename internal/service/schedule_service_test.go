package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shiftboard/backend/internal/dto"
	"shiftboard/backend/internal/model"
	pkgerrors "shiftboard/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTestScheduleService() (ScheduleService, *testRepos) {
	repos := newTestRepos()
	svc := NewScheduleService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// seedTeam 种子数据：1 个团队（owner-1）+ 2 个成员 + 1 个容量 2 的房间
func seedTeam(repos *testRepos) {
	ctx := context.Background()
	repos.user.Create(ctx, &model.User{UserID: "owner-1", Name: "店长", Email: "owner@test.local"})
	repos.user.Create(ctx, &model.User{UserID: "alice", Name: "张三", Email: "alice@test.local"})
	repos.user.Create(ctx, &model.User{UserID: "bob", Name: "李四", Email: "bob@test.local"})

	repos.team.Create(ctx, &model.Team{TeamID: "team-1", Name: "门店A", OwnerID: "owner-1", JoinCode: "CODE1234"})
	repos.team.AddMember(ctx, "team-1", "alice")
	repos.team.AddMember(ctx, "team-1", "bob")

	repos.room.Create(ctx, &model.Room{RoomID: "lab-a", TeamID: "team-1", Name: "实验室A", Capacity: 2})
	repos.role.Create(ctx, &model.Role{RoleID: "role-1", TeamID: "team-1", Name: "收银", Color: "#1677ff"})
}

func pairs(ps ...[2]int) [][]dto.TimePoint {
	result := make([][]dto.TimePoint, 0, len(ps))
	for _, p := range ps {
		result = append(result, []dto.TimePoint{dto.TimePoint(p[0]), dto.TimePoint(p[1])})
	}
	return result
}

// ════════════════════════════════════════════════════════════
// Replace 测试
// ════════════════════════════════════════════════════════════

func TestScheduleService_Replace_Success(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)

	roomID := "lab-a"
	roleID := "role-1"
	resp, err := svc.Replace(context.Background(), "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		RoleID:   &roleID,
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
			"wed": pairs([2]int{600, 660}, [2]int{840, 960}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("Replace 应成功: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("期望 status=success，得到 %q", resp.Status)
	}
	if resp.Created != 3 {
		t.Errorf("期望 created=3，得到 %d", resp.Created)
	}

	list, _ := repos.shift.ListByTeamAndUser(context.Background(), "team-1", "alice")
	if len(list) != 3 {
		t.Errorf("期望落库 3 条班次，得到 %d 条", len(list))
	}
}

func TestScheduleService_Replace_ReplacesOldShifts(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
			"tue": pairs([2]int{540, 720}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("第一次提交失败: %v", err)
	}

	resp, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		AssignedShifts: map[string][][]dto.TimePoint{
			"fri": pairs([2]int{480, 540}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("第二次提交失败: %v", err)
	}
	if resp.Created != 1 {
		t.Errorf("期望 created=1，得到 %d", resp.Created)
	}

	list, _ := repos.shift.ListByTeamAndUser(ctx, "team-1", "alice")
	if len(list) != 1 {
		t.Fatalf("旧班次应被整套替换，期望 1 条，得到 %d 条", len(list))
	}
	if list[0].Day != model.Fri || list[0].StartMin != 480 || list[0].EndMin != 540 {
		t.Errorf("剩余班次不符: %+v", list[0])
	}
}

func TestScheduleService_Replace_EmptyClearsSchedule(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("第一次提交失败: %v", err)
	}

	resp, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID:       "alice",
		AssignedShifts: map[string][][]dto.TimePoint{},
	}, "owner-1")
	if err != nil {
		t.Fatalf("空提交应成功: %v", err)
	}
	if resp.Created != 0 {
		t.Errorf("期望 created=0，得到 %d", resp.Created)
	}

	list, _ := repos.shift.ListByTeamAndUser(ctx, "team-1", "alice")
	if len(list) != 0 {
		t.Errorf("空提交应清空班次，得到 %d 条", len(list))
	}
}

// ════════════════════════════════════════════════════════════
// 容量校验测试
// ════════════════════════════════════════════════════════════

// 实验室A 容量为 2：第三个重叠时段的排班必须被拒绝，
// 且拒绝时整单回滚。
func TestScheduleService_Replace_CapacityConflict(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	roomID := "lab-a"

	// 前两人占满 10:00-12:00
	for _, worker := range []string{"alice", "bob"} {
		_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
			WorkerID: worker,
			RoomID:   &roomID,
			AssignedShifts: map[string][][]dto.TimePoint{
				"mon": pairs([2]int{600, 720}),
			},
		}, "owner-1")
		if err != nil {
			t.Fatalf("%s 的排班应成功: %v", worker, err)
		}
	}

	// 第三人（owner 自己也是成员）重叠 11:00-13:00 → 超容
	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "owner-1",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{660, 780}),
		},
	}, "owner-1")
	if err == nil {
		t.Fatal("期望容量冲突错误，但提交成功了")
	}
	var capErr *pkgerrors.RoomCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("期望 RoomCapacityError，得到: %v", err)
	}
	if capErr.Capacity != 2 {
		t.Errorf("冲突容量不符: %d", capErr.Capacity)
	}

	// 回滚：第三人无任何班次落库
	list, _ := repos.shift.ListByTeamAndUser(ctx, "team-1", "owner-1")
	if len(list) != 0 {
		t.Errorf("冲突后应整单回滚，得到 %d 条", len(list))
	}
}

func TestScheduleService_Replace_PartialConflictRollsBackWhole(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	// 容量 1 的房间
	repos.room.Create(ctx, &model.Room{RoomID: "booth", TeamID: "team-1", Name: "档口", Capacity: 1})
	roomID := "booth"

	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"tue": pairs([2]int{600, 720}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("alice 的排班应成功: %v", err)
	}

	// bob：周一不冲突 + 周二冲突 → 两条都不应落库
	_, err = svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "bob",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{600, 720}),
			"tue": pairs([2]int{630, 690}),
		},
	}, "owner-1")
	if err == nil {
		t.Fatal("期望容量冲突错误，但提交成功了")
	}

	list, _ := repos.shift.ListByTeamAndUser(ctx, "team-1", "bob")
	if len(list) != 0 {
		t.Errorf("部分冲突应整单回滚，得到 %d 条", len(list))
	}
}

func TestScheduleService_Replace_SharedBoundaryNoConflict(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	repos.room.Create(ctx, &model.Room{RoomID: "booth", TeamID: "team-1", Name: "档口", Capacity: 1})
	roomID := "booth"

	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{600, 660}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("alice 的排班应成功: %v", err)
	}

	// bob 的班次以 alice 的结束时刻开始——共享边界不冲突
	_, err = svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "bob",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{660, 720}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("共享边界不应冲突: %v", err)
	}
}

func TestScheduleService_Replace_ResubmitOwnRoomSlot(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	repos.room.Create(ctx, &model.Room{RoomID: "booth", TeamID: "team-1", Name: "档口", Capacity: 1})
	roomID := "booth"

	// alice 自己占用后重新提交同一时段——旧行先删，不应自己挡自己
	for i := 0; i < 2; i++ {
		_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
			WorkerID: "alice",
			RoomID:   &roomID,
			AssignedShifts: map[string][][]dto.TimePoint{
				"mon": pairs([2]int{600, 720}),
			},
		}, "owner-1")
		if err != nil {
			t.Fatalf("第 %d 次提交应成功: %v", i+1, err)
		}
	}

	list, _ := repos.shift.ListByTeamAndUser(ctx, "team-1", "alice")
	if len(list) != 1 {
		t.Errorf("重复提交后应只有 1 条班次，得到 %d 条", len(list))
	}
}

// ════════════════════════════════════════════════════════════
// 权限与校验测试
// ════════════════════════════════════════════════════════════

func TestScheduleService_Replace_NonOwnerRejected(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)

	_, err := svc.Replace(context.Background(), "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
		},
	}, "alice")
	if !errors.Is(err, ErrNotTeamOwner) {
		t.Fatalf("期望 ErrNotTeamOwner，得到: %v", err)
	}

	list, _ := repos.shift.ListByTeamAndUser(context.Background(), "team-1", "alice")
	if len(list) != 0 {
		t.Errorf("越权提交不应落库，得到 %d 条", len(list))
	}
}

func TestScheduleService_Replace_WorkerNotMember(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	repos.user.Create(context.Background(), &model.User{UserID: "stranger", Name: "路人", Email: "x@test.local"})

	_, err := svc.Replace(context.Background(), "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "stranger",
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
		},
	}, "owner-1")
	if !errors.Is(err, ErrWorkerNotMember) {
		t.Fatalf("期望 ErrWorkerNotMember，得到: %v", err)
	}
}

func TestScheduleService_Replace_InvalidDay(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)

	_, err := svc.Replace(context.Background(), "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		AssignedShifts: map[string][][]dto.TimePoint{
			"monday": pairs([2]int{540, 720}),
		},
	}, "owner-1")
	if err == nil {
		t.Fatal("非法星期符号应报错")
	}
}

func TestScheduleService_Replace_InvalidInterval(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)

	cases := [][2]int{
		{720, 720},  // 空区间
		{720, 600},  // 倒置
		{-10, 60},   // 负起点
		{600, 1500}, // 超过一天
	}
	for _, c := range cases {
		_, err := svc.Replace(context.Background(), "team-1", &dto.ReplaceScheduleRequest{
			WorkerID: "alice",
			AssignedShifts: map[string][][]dto.TimePoint{
				"mon": pairs(c),
			},
		}, "owner-1")
		if !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("区间 [%d, %d) 期望 ErrInvalidInterval，得到: %v", c[0], c[1], err)
		}
	}
}

func TestScheduleService_Replace_NonPairShape(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)

	// 三元素时间组不是合法的 [start, end] 时间对
	_, err := svc.Replace(context.Background(), "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": {{600, 660, 720}},
		},
	}, "owner-1")
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("非两元素时间组期望 ErrInvalidInterval，得到: %v", err)
	}
}

func TestScheduleService_Replace_RoomFromOtherTeam(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	repos.team.Create(ctx, &model.Team{TeamID: "team-2", Name: "门店B", OwnerID: "owner-1", JoinCode: "CODE5678"})
	repos.room.Create(ctx, &model.Room{RoomID: "other-room", TeamID: "team-2", Name: "别家房间", Capacity: 1})

	roomID := "other-room"
	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
		},
	}, "owner-1")
	if !errors.Is(err, ErrRoomTeamMismatch) {
		t.Fatalf("期望 ErrRoomTeamMismatch，得到: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Check 探测测试
// ════════════════════════════════════════════════════════════

func TestScheduleService_Check(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	roomID := "lab-a"
	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{600, 720}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}

	resp, err := svc.Check(ctx, "team-1", "lab-a", "mon", 660, 780, "bob")
	if err != nil {
		t.Fatalf("Check 失败: %v", err)
	}
	if resp.Occupancy != 1 {
		t.Errorf("期望占用 1，得到 %d", resp.Occupancy)
	}
	if resp.Capacity != 2 {
		t.Errorf("期望容量 2，得到 %d", resp.Capacity)
	}
	if !resp.Available {
		t.Error("容量 2 占用 1 应仍可用")
	}
	if resp.StartTime != "11:00" || resp.EndTime != "13:00" {
		t.Errorf("时刻格式化不符: %s-%s", resp.StartTime, resp.EndTime)
	}
}

func TestScheduleService_Check_NotMember(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	repos.user.Create(context.Background(), &model.User{UserID: "stranger", Name: "路人", Email: "x@test.local"})

	_, err := svc.Check(context.Background(), "team-1", "lab-a", "mon", 600, 660, "stranger")
	if !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("期望 ErrNotTeamMember，得到: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// List 测试
// ════════════════════════════════════════════════════════════

func TestScheduleService_ListByTeam(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedTeam(repos)
	ctx := context.Background()

	roleID := "role-1"
	roomID := "lab-a"
	_, err := svc.Replace(ctx, "team-1", &dto.ReplaceScheduleRequest{
		WorkerID: "alice",
		RoleID:   &roleID,
		RoomID:   &roomID,
		AssignedShifts: map[string][][]dto.TimePoint{
			"mon": pairs([2]int{540, 720}),
		},
	}, "owner-1")
	if err != nil {
		t.Fatalf("排班失败: %v", err)
	}

	list, err := svc.ListByTeam(ctx, "team-1", "bob")
	if err != nil {
		t.Fatalf("ListByTeam 失败: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望 1 条班次，得到 %d 条", len(list))
	}
	sh := list[0]
	if sh.UserName != "张三" {
		t.Errorf("成员姓名不符: %q", sh.UserName)
	}
	if sh.StartTime != "09:00" || sh.EndTime != "12:00" {
		t.Errorf("时刻格式化不符: %s-%s", sh.StartTime, sh.EndTime)
	}
	if sh.Role == nil || sh.Role.Name != "收银" {
		t.Errorf("角色信息不符: %+v", sh.Role)
	}
	if sh.Room == nil || sh.Room.Name != "实验室A" {
		t.Errorf("房间信息不符: %+v", sh.Room)
	}
}
