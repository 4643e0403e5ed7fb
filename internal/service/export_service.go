package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftboard/backend/internal/repository"
	"shiftboard/backend/pkg/clock"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoShifts     = errors.New("该团队暂无排班")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 排班表导出为 Excel (.xlsx)，成员为行、星期为列
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSchedule 导出团队排班表为 Excel
	ExportSchedule(ctx context.Context, teamID, callerID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule — 导出排班表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "排班表"
//   - 行头：成员姓名
//   - 列头：周日 ~ 周六
//   - 单元格：每班一行 "HH:MM-HH:MM 角色 @房间"
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSchedule(ctx context.Context, teamID, callerID string) (*bytes.Buffer, string, error) {
	team, err := s.repo.Team.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTeamNotFound
		}
		s.logger.Error("查询团队失败", zap.Error(err))
		return nil, "", err
	}

	isMember, err := s.repo.Team.IsMember(ctx, teamID, callerID)
	if err != nil {
		s.logger.Error("查询成员关系失败", zap.Error(err))
		return nil, "", err
	}
	if !isMember {
		return nil, "", ErrNotTeamMember
	}

	// 1. 查询班次与关联目录
	shifts, err := s.repo.Shift.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	members, err := s.repo.Team.ListMembers(ctx, teamID)
	if err != nil {
		s.logger.Error("查询成员失败", zap.Error(err))
		return nil, "", err
	}
	roles, err := s.repo.Role.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("查询角色失败", zap.Error(err))
		return nil, "", err
	}
	rooms, err := s.repo.Room.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Error("查询房间失败", zap.Error(err))
		return nil, "", err
	}

	nameByUser := make(map[string]string, len(members))
	for i := range members {
		if members[i].User != nil {
			nameByUser[members[i].UserID] = members[i].User.Name
		}
	}
	roleName := make(map[string]string, len(roles))
	for i := range roles {
		roleName[roles[i].RoleID] = roles[i].Name
	}
	roomName := make(map[string]string, len(rooms))
	for i := range rooms {
		roomName[rooms[i].RoomID] = rooms[i].Name
	}

	// 2. 构建数据索引: "userID:dayIndex" → 单元格行
	cellLines := make(map[string][]string)
	userSet := make(map[string]bool)
	var userOrder []string

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].UserID != shifts[j].UserID {
			return nameByUser[shifts[i].UserID] < nameByUser[shifts[j].UserID]
		}
		if shifts[i].Day != shifts[j].Day {
			return shifts[i].Day.Index() < shifts[j].Day.Index()
		}
		return shifts[i].StartMin < shifts[j].StartMin
	})

	for i := range shifts {
		sh := &shifts[i]
		if !userSet[sh.UserID] {
			userSet[sh.UserID] = true
			userOrder = append(userOrder, sh.UserID)
		}

		line := fmt.Sprintf("%s-%s", clock.Format(sh.StartMin), clock.Format(sh.EndMin))
		if sh.RoleID != nil {
			if name, ok := roleName[*sh.RoleID]; ok {
				line += " " + name
			}
		}
		if sh.RoomID != nil {
			if name, ok := roomName[*sh.RoomID]; ok {
				line += " @" + name
			}
		}
		key := fmt.Sprintf("%s:%d", sh.UserID, sh.Day.Index())
		cellLines[key] = append(cellLines[key], line)
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	dayNames := [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 14)
	for i := 0; i < 7; i++ {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetColWidth(sheetName, col, col, 22)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 排班表", team.Name))
	f.MergeCell(sheetName, "A1", "H1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "成员")
	for i, name := range dayNames {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetCellValue(sheetName, cell(col, row), name)
	}

	// 数据行
	row = 3
	for _, userID := range userOrder {
		name, ok := nameByUser[userID]
		if !ok {
			name = userID
		}
		f.SetCellValue(sheetName, cell("A", row), name)
		for d := 0; d < 7; d++ {
			col, _ := excelize.ColumnNumberToName(2 + d)
			key := fmt.Sprintf("%s:%d", userID, d)
			if lines, ok := cellLines[key]; ok {
				f.SetCellValue(sheetName, cell(col, row), strings.Join(lines, "\n"))
			} else {
				f.SetCellValue(sheetName, cell(col, row), "-")
			}
			f.SetCellStyle(sheetName, cell(col, row), cell(col, row), wrapStyle)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排班表_%s.xlsx", team.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
