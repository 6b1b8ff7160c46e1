package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserModel struct {
	bun.BaseModel `bun:"table:common_users,alias:u"`

	ID                uuid.UUID `bun:"id,pk,type:uuid"`
	Username          string    `bun:"username,notnull,unique"`
	Email             *string   `bun:"email,unique"`
	PasswordHash      string    `bun:"password_hash,notnull"`
	IsActive          bool      `bun:"is_active,notnull,default:true"`
	IsSuperuser       bool      `bun:"is_superuser,notnull,default:false"`
	EmailVerified     bool      `bun:"email_verified,notnull,default:false"`
	VerificationToken *string   `bun:"verification_token"`
	Avatar            *string   `bun:"avatar"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type TaskModel struct {
	bun.BaseModel `bun:"table:study_tasks,alias:t"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID  `bun:"user_id,notnull,type:uuid"`
	Name      string     `bun:"name,notnull"`
	Duration  int        `bun:"duration,notnull,default:0"`
	StartTime *time.Time `bun:"start_time"`
	EndTime   *time.Time `bun:"end_time"`
	Completed bool       `bun:"completed,notnull,default:true"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

type PlanModel struct {
	bun.BaseModel `bun:"table:study_plans,alias:p"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID  `bun:"user_id,notnull,type:uuid"`
	Text      string     `bun:"text,notnull"`
	Completed bool       `bun:"completed,notnull,default:false"`
	Started   bool       `bun:"started,notnull,default:false"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	StartTime *time.Time `bun:"start_time"`
	EndTime   *time.Time `bun:"end_time"`
}

type AchievementModel struct {
	bun.BaseModel `bun:"table:study_achievements,alias:a"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	UserID     uuid.UUID `bun:"user_id,notnull,type:uuid,unique:study_achievements_user_tier"`
	Type       string    `bun:"type,notnull,unique:study_achievements_user_tier"`
	Level      int       `bun:"level,notnull,unique:study_achievements_user_tier"`
	UnlockedAt time.Time `bun:"unlocked_at,notnull,default:current_timestamp"`
}
