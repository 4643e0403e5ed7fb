package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shiftboard/backend/internal/model"
	"shiftboard/backend/internal/repository"
	"shiftboard/backend/pkg/clock"
	pkgerrors "shiftboard/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock TeamRepository ──

type mockTeamRepo struct {
	teams   map[string]*model.Team
	members map[string]map[string]bool // teamID → userID → true
	users   *mockUserRepo

	// RemoveMember 连带清理用
	shifts *mockShiftRepo
	avail  *mockAvailabilityRepo
	roles  *mockRoleRepo
}

func newMockTeamRepo(users *mockUserRepo) *mockTeamRepo {
	return &mockTeamRepo{
		teams:   make(map[string]*model.Team),
		members: make(map[string]map[string]bool),
		users:   users,
	}
}

func (m *mockTeamRepo) Create(_ context.Context, team *model.Team) error {
	if team.TeamID == "" {
		team.TeamID = "team-" + team.Name
	}
	team.Version = 1
	m.teams[team.TeamID] = team
	if m.members[team.TeamID] == nil {
		m.members[team.TeamID] = make(map[string]bool)
	}
	m.members[team.TeamID][team.OwnerID] = true
	return nil
}

func (m *mockTeamRepo) GetByID(_ context.Context, id string) (*model.Team, error) {
	if t, ok := m.teams[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) GetByJoinCode(_ context.Context, code string) (*model.Team, error) {
	for _, t := range m.teams {
		if t.JoinCode == code {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamRepo) ListByUser(_ context.Context, userID string) ([]model.Team, error) {
	var result []model.Team
	for id, t := range m.teams {
		if m.members[id][userID] {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTeamRepo) ListMembers(_ context.Context, teamID string) ([]model.TeamMember, error) {
	var result []model.TeamMember
	for userID := range m.members[teamID] {
		tm := model.TeamMember{TeamID: teamID, UserID: userID}
		if u, ok := m.users.users[userID]; ok {
			tm.User = u
		}
		result = append(result, tm)
	}
	return result, nil
}

func (m *mockTeamRepo) IsOwner(_ context.Context, teamID, userID string) (bool, error) {
	t, ok := m.teams[teamID]
	if !ok {
		return false, nil
	}
	return t.OwnerID == userID, nil
}

func (m *mockTeamRepo) IsMember(_ context.Context, teamID, userID string) (bool, error) {
	return m.members[teamID][userID], nil
}

func (m *mockTeamRepo) AddMember(_ context.Context, teamID, userID string) error {
	if m.members[teamID] == nil {
		m.members[teamID] = make(map[string]bool)
	}
	m.members[teamID][userID] = true
	return nil
}

func (m *mockTeamRepo) RemoveMember(_ context.Context, teamID, userID string) error {
	delete(m.members[teamID], userID)
	if m.shifts != nil {
		m.shifts.purge(teamID, userID)
	}
	if m.avail != nil {
		delete(m.avail.ranges, teamID+":"+userID)
	}
	if m.roles != nil {
		delete(m.roles.assignments, teamID+":"+userID)
		delete(m.roles.prefs, teamID+":"+userID)
	}
	return nil
}

func (m *mockTeamRepo) UpdateJoinCode(_ context.Context, team *model.Team) error {
	existing, ok := m.teams[team.TeamID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != team.Version {
		return pkgerrors.ErrOptimisticLock
	}
	team.Version++
	m.teams[team.TeamID] = team
	return nil
}

func (m *mockTeamRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.teams, id)
	delete(m.members, id)
	return nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles       map[string]*model.Role
	assignments map[string]string   // teamID:userID → roleID
	prefs       map[string][]string // teamID:userID → roleIDs
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{
		roles:       make(map[string]*model.Role),
		assignments: make(map[string]string),
		prefs:       make(map[string][]string),
	}
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.Role) error {
	if role.RoleID == "" {
		role.RoleID = "role-" + role.Name
	}
	if role.Color == "" {
		role.Color = "#1677ff"
	}
	m.roles[role.RoleID] = role
	return nil
}

func (m *mockRoleRepo) GetByID(_ context.Context, id string) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) ListByTeam(_ context.Context, teamID string) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		if r.TeamID == teamID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.roles, id)
	for k, roleID := range m.assignments {
		if roleID == id {
			delete(m.assignments, k)
		}
	}
	return nil
}

func (m *mockRoleRepo) Assign(_ context.Context, teamID, userID, roleID string, _ string) error {
	key := teamID + ":" + userID
	if roleID == "" {
		delete(m.assignments, key)
		return nil
	}
	m.assignments[key] = roleID
	return nil
}

func (m *mockRoleRepo) GetAssignment(_ context.Context, teamID, userID string) (*model.TeamRoleAssignment, error) {
	if roleID, ok := m.assignments[teamID+":"+userID]; ok {
		return &model.TeamRoleAssignment{TeamID: teamID, UserID: userID, RoleID: roleID}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) ListAssignmentsByTeam(_ context.Context, teamID string) ([]model.TeamRoleAssignment, error) {
	var result []model.TeamRoleAssignment
	for key, roleID := range m.assignments {
		if len(key) > len(teamID) && key[:len(teamID)] == teamID {
			result = append(result, model.TeamRoleAssignment{
				TeamID: teamID,
				UserID: key[len(teamID)+1:],
				RoleID: roleID,
			})
		}
	}
	return result, nil
}

func (m *mockRoleRepo) ReplacePreferences(_ context.Context, teamID, userID string, roleIDs []string) error {
	key := teamID + ":" + userID
	if len(roleIDs) == 0 {
		delete(m.prefs, key)
		return nil
	}
	m.prefs[key] = append([]string(nil), roleIDs...)
	return nil
}

func (m *mockRoleRepo) ListPreferences(_ context.Context, teamID, userID string) ([]model.UserRolePreference, error) {
	var result []model.UserRolePreference
	for _, roleID := range m.prefs[teamID+":"+userID] {
		result = append(result, model.UserRolePreference{TeamID: teamID, UserID: userID, RoleID: roleID})
	}
	return result, nil
}

func (m *mockRoleRepo) ListPreferencesByTeam(_ context.Context, teamID string) ([]model.UserRolePreference, error) {
	var result []model.UserRolePreference
	for key, roleIDs := range m.prefs {
		if len(key) > len(teamID) && key[:len(teamID)] == teamID {
			userID := key[len(teamID)+1:]
			for _, roleID := range roleIDs {
				result = append(result, model.UserRolePreference{TeamID: teamID, UserID: userID, RoleID: roleID})
			}
		}
	}
	return result, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms     map[string]*model.Room
	openHours map[string][]model.RoomAvailability
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{
		rooms:     make(map[string]*model.Room),
		openHours: make(map[string][]model.RoomAvailability),
	}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		room.RoomID = "room-" + room.Name
	}
	if room.Capacity < 1 {
		room.Capacity = 1
	}
	room.Version = 1
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) ListByTeam(_ context.Context, teamID string) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if r.TeamID == teamID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	existing, ok := m.rooms[room.RoomID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != room.Version {
		return pkgerrors.ErrOptimisticLock
	}
	room.Version++
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rooms, id)
	delete(m.openHours, id)
	return nil
}

func (m *mockRoomRepo) ReplaceOpenHours(_ context.Context, roomID string, slots []model.RoomAvailability) error {
	m.openHours[roomID] = append([]model.RoomAvailability(nil), slots...)
	return nil
}

func (m *mockRoomRepo) ListOpenHours(_ context.Context, roomID string) ([]model.RoomAvailability, error) {
	return m.openHours[roomID], nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	ranges map[string][]model.AvailabilityRange // teamID:userID → rows
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{ranges: make(map[string][]model.AvailabilityRange)}
}

func (m *mockAvailabilityRepo) ReplaceForMember(_ context.Context, teamID, userID string, ranges []model.AvailabilityRange) error {
	key := teamID + ":" + userID
	if len(ranges) == 0 {
		delete(m.ranges, key)
		return nil
	}
	rows := append([]model.AvailabilityRange(nil), ranges...)
	for i := range rows {
		if rows[i].AvailabilityRangeID == "" {
			rows[i].AvailabilityRangeID = fmt.Sprintf("ar-%s-%d", userID, i)
		}
	}
	m.ranges[key] = rows
	return nil
}

func (m *mockAvailabilityRepo) ListByTeamAndUser(_ context.Context, teamID, userID string) ([]model.AvailabilityRange, error) {
	return m.ranges[teamID+":"+userID], nil
}

func (m *mockAvailabilityRepo) ListByTeam(_ context.Context, teamID string) ([]model.AvailabilityRange, error) {
	var result []model.AvailabilityRange
	for key, rows := range m.ranges {
		if len(key) > len(teamID) && key[:len(teamID)] == teamID {
			result = append(result, rows...)
		}
	}
	return result, nil
}

// ── Mock ShiftRepository ──
//
// 重新实现仓储层的容量校验语义：删旧建新在同一"事务"内，
// 任一候选班次超容则全部不落库。

type mockShiftRepo struct {
	shifts []model.Shift
	rooms  *mockRoomRepo
	nextID int
}

func newMockShiftRepo(rooms *mockRoomRepo) *mockShiftRepo {
	return &mockShiftRepo{rooms: rooms}
}

func (m *mockShiftRepo) ReplaceForMember(_ context.Context, teamID, userID string, shifts []model.Shift) error {
	// 工作副本：先删除该成员旧班次
	working := make([]model.Shift, 0, len(m.shifts)+len(shifts))
	for _, s := range m.shifts {
		if s.TeamID == teamID && s.UserID == userID {
			continue
		}
		working = append(working, s)
	}

	for _, s := range shifts {
		if s.RoomID != nil {
			room, ok := m.rooms.rooms[*s.RoomID]
			if !ok {
				return gorm.ErrRecordNotFound
			}
			n := 0
			for _, existing := range working {
				if existing.RoomID == nil || *existing.RoomID != *s.RoomID {
					continue
				}
				if existing.Day != s.Day {
					continue
				}
				if clock.Overlaps(existing.StartMin, existing.EndMin, s.StartMin, s.EndMin) {
					n++
				}
			}
			if n >= room.Capacity {
				return &pkgerrors.RoomCapacityError{
					RoomName: room.Name,
					Day:      string(s.Day),
					StartMin: s.StartMin,
					EndMin:   s.EndMin,
					Capacity: room.Capacity,
				}
			}
		}
		m.nextID++
		s.ShiftID = fmt.Sprintf("shift-%d", m.nextID)
		working = append(working, s)
	}

	m.shifts = working
	return nil
}

func (m *mockShiftRepo) CountOverlapping(_ context.Context, roomID string, day model.Day, startMin, endMin int, excludeUserID string) (int, error) {
	n := 0
	for _, s := range m.shifts {
		if s.RoomID == nil || *s.RoomID != roomID {
			continue
		}
		if s.Day != day {
			continue
		}
		if excludeUserID != "" && s.UserID == excludeUserID {
			continue
		}
		if clock.Overlaps(s.StartMin, s.EndMin, startMin, endMin) {
			n++
		}
	}
	return n, nil
}

func (m *mockShiftRepo) ListByTeam(_ context.Context, teamID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.TeamID == teamID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) ListByTeamAndUser(_ context.Context, teamID, userID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.TeamID == teamID && s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockShiftRepo) purge(teamID, userID string) {
	var kept []model.Shift
	for _, s := range m.shifts {
		if s.TeamID == teamID && s.UserID == userID {
			continue
		}
		kept = append(kept, s)
	}
	m.shifts = kept
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.TeamEvent
	nextID int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.TeamEvent)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.TeamEvent) error {
	if event.TeamEventID == "" {
		m.nextID++
		event.TeamEventID = fmt.Sprintf("evt-%d", m.nextID)
	}
	m.events[event.TeamEventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.TeamEvent, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByTeam(_ context.Context, teamID string) ([]model.TeamEvent, error) {
	var result []model.TeamEvent
	for _, e := range m.events {
		if e.TeamID == teamID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

// ── 聚合辅助 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user  *mockUserRepo
	team  *mockTeamRepo
	role  *mockRoleRepo
	room  *mockRoomRepo
	avail *mockAvailabilityRepo
	shift *mockShiftRepo
	event *mockEventRepo
}

func newTestRepos() *testRepos {
	users := newMockUserRepo()
	team := newMockTeamRepo(users)
	role := newMockRoleRepo()
	room := newMockRoomRepo()
	avail := newMockAvailabilityRepo()
	shift := newMockShiftRepo(room)
	event := newMockEventRepo()

	team.shifts = shift
	team.avail = avail
	team.roles = role

	return &testRepos{
		user:  users,
		team:  team,
		role:  role,
		room:  room,
		avail: avail,
		shift: shift,
		event: event,
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		Team:         r.team,
		Role:         r.role,
		Room:         r.room,
		Availability: r.avail,
		Shift:        r.shift,
		Event:        r.event,
	}
}
