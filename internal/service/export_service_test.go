package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shiftboard/backend/internal/model"
)

func setupTestExportService() (ExportService, *testRepos) {
	repos := newTestRepos()
	svc := NewExportService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// 排班导出测试
// ════════════════════════════════════════════════════════════

func TestExportService_ExportSchedule(t *testing.T) {
	svc, repos := setupTestExportService()
	seedTeam(repos)
	ctx := context.Background()

	roomID := "lab-a"
	roleID := "role-1"
	repos.shift.ReplaceForMember(ctx, "team-1", "alice", []model.Shift{
		{UserID: "alice", TeamID: "team-1", Day: model.Mon, StartMin: 540, EndMin: 720, RoomID: &roomID, RoleID: &roleID},
		{UserID: "alice", TeamID: "team-1", Day: model.Wed, StartMin: 600, EndMin: 660},
	})

	buf, filename, err := svc.ExportSchedule(ctx, "team-1", "alice")
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "排班表_门店A.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	if buf.Len() == 0 {
		t.Fatal("导出内容为空")
	}

	// 回读校验关键单元格
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容不是合法 xlsx: %v", err)
	}
	defer f.Close()

	name, _ := f.GetCellValue("排班表", "A3")
	if name != "张三" {
		t.Errorf("期望成员行 A3=张三，得到 %q", name)
	}
	// 周一列（B=周日，C=周一）
	cellVal, _ := f.GetCellValue("排班表", "C3")
	if cellVal != "09:00-12:00 收银 @实验室A" {
		t.Errorf("周一单元格内容不符: %q", cellVal)
	}
}

func TestExportService_ExportSchedule_NoShifts(t *testing.T) {
	svc, repos := setupTestExportService()
	seedTeam(repos)

	_, _, err := svc.ExportSchedule(context.Background(), "team-1", "owner-1")
	if !errors.Is(err, ErrExportNoShifts) {
		t.Fatalf("期望 ErrExportNoShifts，得到 %v", err)
	}
}

func TestExportService_ExportSchedule_NotMember(t *testing.T) {
	svc, repos := setupTestExportService()
	seedTeam(repos)
	ctx := context.Background()
	repos.user.Create(ctx, &model.User{UserID: "outsider", Name: "路人", Email: "out@test.local"})

	_, _, err := svc.ExportSchedule(ctx, "team-1", "outsider")
	if !errors.Is(err, ErrNotTeamMember) {
		t.Fatalf("期望 ErrNotTeamMember，得到 %v", err)
	}
}
